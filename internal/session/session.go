// Package session owns the invoice being edited. All mutation funnels through
// named update operations so derived totals can never go stale relative to
// the data they were computed from.
package session

import (
	"errors"
	"sync"

	"github.com/webappproject/geninvoico/internal/model"
	"github.com/webappproject/geninvoico/internal/template"
	"github.com/webappproject/geninvoico/internal/totals"
)

// Section names the party field groups addressable through SetParty.
type Section string

const (
	SectionCompany  Section = "company"
	SectionBilling  Section = "billing"
	SectionShipping Section = "shipping"
)

// Action names the user operations that may not run twice concurrently.
type Action string

const (
	ActionSave     Action = "save"
	ActionDownload Action = "download"
	ActionDelete   Action = "delete"
)

var (
	// ErrLastItem is returned when removing an item would leave the invoice
	// empty; an invoice always keeps at least one line.
	ErrLastItem = errors.New("cannot remove the only line item")

	// ErrActionInFlight is returned when the same action is started again
	// before the outstanding one finished.
	ErrActionInFlight = errors.New("action already in progress")

	errNoSuchItem = errors.New("no line item at that index")
)

// Session is the exclusively-owned editing state for one invoice. It is safe
// for use from multiple goroutines, but there is never more than one session
// per invoice.
type Session struct {
	mu       sync.Mutex
	inv      model.Invoice
	selector *template.Selector
	inFlight map[Action]bool
}

// New starts a session over a fresh default invoice and assigns its number.
func New() *Session {
	inv := model.New()
	inv.EnsureNumber()
	return &Session{
		inv:      inv,
		selector: template.NewSelector(),
		inFlight: make(map[Action]bool),
	}
}

// Open starts a session over a fetched record, as the dashboard does when
// viewing an existing invoice. Missing pieces get the same defaults a new
// invoice would: at least one line item and an invoice number.
func Open(inv model.Invoice) *Session {
	s := New()
	if len(inv.Items) == 0 {
		inv.Items = []model.LineItem{{}}
	}
	inv.EnsureNumber()
	totals.Recompute(&inv)
	s.inv = inv
	if inv.Template != "" {
		s.selector.Select(inv.Template)
	}
	return s
}

// Snapshot returns a deep copy of the current invoice.
func (s *Session) Snapshot() model.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Clone()
}

// Totals derives the current invoice totals. The result always reflects the
// latest completed mutation.
func (s *Session) Totals() totals.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totals.Compute(s.inv.Items, s.inv.Tax)
}

func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Title = title
}

func (s *Session) SetParty(sec Section, p model.Party) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch sec {
	case SectionCompany:
		s.inv.Company = p
	case SectionBilling:
		s.inv.Billing = p
	case SectionShipping:
		s.inv.Shipping = p
	}
}

// CopyBillingToShipping implements the "Same as Billing" toggle.
func (s *Session) CopyBillingToShipping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Shipping = s.inv.Billing
}

// SetMeta updates the invoice date fields. The number is managed through
// EnsureNumber and is deliberately not writable here.
func (s *Session) SetMeta(date, dueDate string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Meta.Date = date
	s.inv.Meta.DueDate = dueDate
}

func (s *Session) SetAccount(a model.BankAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Account = a
}

func (s *Session) SetTaxRate(raw model.Numeric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Tax = raw
}

func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Notes = notes
}

// SetLogo records the logo reference: either a durable URL from a completed
// upload or raw data pending upload at save time.
func (s *Session) SetLogo(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Logo = ref
}

// AddItem appends a blank line item.
func (s *Session) AddItem() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.Items = append(s.inv.Items, model.LineItem{})
}

// RemoveItem deletes the item at index. Removing the last remaining item is
// refused so the invoice never renders without lines.
func (s *Session) RemoveItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.inv.Items) {
		return errNoSuchItem
	}
	if len(s.inv.Items) == 1 {
		return ErrLastItem
	}
	s.inv.Items = append(s.inv.Items[:index], s.inv.Items[index+1:]...)
	return nil
}

// UpdateItem replaces the editable fields of one item and recomputes that
// item's total. Other items are left untouched.
func (s *Session) UpdateItem(index int, name string, qty, amount model.Numeric, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.inv.Items) {
		return errNoSuchItem
	}
	it := &s.inv.Items[index]
	it.Name = name
	it.Quantity = qty
	it.UnitAmount = amount
	it.Description = description
	it.Total = totals.ItemTotal(*it)
	return nil
}

// SelectTemplate validates the items and, when they pass, switches the active
// template. A validation failure refuses the transition and reports the
// offending item; an unknown id passes validation but leaves the selection
// unchanged.
func (s *Session) SelectTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := template.ValidateItems(s.inv.Items); err != nil {
		return err
	}
	s.selector.Select(id)
	return nil
}

// Template returns the active template id.
func (s *Session) Template() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector.Current()
}

// Begin marks an action in flight. It fails when the same action is already
// running, which is how a second Save click is refused while one is pending.
func (s *Session) Begin(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[a] {
		return ErrActionInFlight
	}
	s.inFlight[a] = true
	return nil
}

// End clears the in-flight mark set by Begin.
func (s *Session) End(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, a)
}

// ApplySaved folds a successful store response back into the session: the
// assigned id, durable asset URLs and timestamps. Called only after the store
// acknowledged the save.
func (s *Session) ApplySaved(saved model.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.ID = saved.ID
	s.inv.Logo = saved.Logo
	s.inv.ThumbnailURL = saved.ThumbnailURL
	s.inv.Template = saved.Template
	s.inv.CreatedAt = saved.CreatedAt
	s.inv.LastUpdatedAt = saved.LastUpdatedAt
}
