// Package render turns an invoice into its on-screen representation and
// captures that representation as a raster bitmap.
package render

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/webappproject/geninvoico/internal/model"
	tpl "github.com/webappproject/geninvoico/internal/template"
	"github.com/webappproject/geninvoico/internal/totals"
)

const invoiceHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.Invoice.Meta.Number}}</title>
  <style>
    :root { --accent: {{.Accent}}; }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 0;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
      background: #ffffff;
    }
    #invoice {
      width: 794px;
      padding: 40px;
      background: #ffffff;
    }
    .header {
      display: flex;
      justify-content: space-between;
      align-items: flex-start;
      border-bottom: 2px solid var(--accent);
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .brand img { max-height: 64px; }
    .meta { text-align: right; font-size: 14px; }
    .label {
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      font-size: 11px;
    }
    .parties {
      display: flex;
      gap: 32px;
      margin-bottom: 24px;
      font-size: 14px;
    }
    .parties > div { flex: 1; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { padding: 10px; border-bottom: 1px solid #e5e7eb; text-align: left; }
    th {
      text-transform: uppercase;
      font-size: 11px;
      letter-spacing: 0.04em;
      color: var(--accent);
    }
    {{if .Banded}}tbody tr:nth-child(even) { background: #f3f4f6; }{{end}}
    td.num, th.num { text-align: right; }
    .totals {
      margin-top: 16px;
      margin-left: auto;
      width: 280px;
      font-size: 14px;
    }
    .totals div { display: flex; justify-content: space-between; padding: 4px 0; }
    .totals .grand {
      border-top: 2px solid var(--accent);
      font-weight: 700;
      font-size: 16px;
    }
    .footer {
      margin-top: 32px;
      border-top: 1px solid #e5e7eb;
      padding-top: 16px;
      font-size: 12px;
      color: #6b7280;
    }
  </style>
</head>
<body>
  <div id="invoice">
    <div class="header">
      <div class="brand">
        {{if .Invoice.Logo}}<img src="{{.Invoice.Logo}}" alt="Company logo" crossorigin="anonymous" />{{end}}
        <div><strong>{{.Invoice.Company.Name}}</strong></div>
        <div>{{.Invoice.Company.Phone}}</div>
        <div>{{.Invoice.Company.Address}}</div>
      </div>
      <div class="meta">
        <div class="label">Invoice</div>
        <div><strong>{{.Invoice.Meta.Number}}</strong></div>
        {{if .Invoice.Meta.Date}}<div>Date: {{.Invoice.Meta.Date}}</div>{{end}}
        {{if .Invoice.Meta.DueDate}}<div>Due: {{.Invoice.Meta.DueDate}}</div>{{end}}
      </div>
    </div>

    <div class="parties">
      <div>
        <div class="label">Bill To</div>
        <div><strong>{{.Invoice.Billing.Name}}</strong></div>
        <div>{{.Invoice.Billing.Phone}}</div>
        <div>{{.Invoice.Billing.Address}}</div>
      </div>
      <div>
        <div class="label">Ship To</div>
        <div><strong>{{.Invoice.Shipping.Name}}</strong></div>
        <div>{{.Invoice.Shipping.Phone}}</div>
        <div>{{.Invoice.Shipping.Address}}</div>
      </div>
    </div>

    <table>
      <thead>
        <tr>
          <th>Item</th>
          <th>Description</th>
          <th class="num">Qty</th>
          <th class="num">Rate</th>
          <th class="num">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Invoice.Items}}
        <tr>
          <td>{{.Name}}</td>
          <td>{{.Description}}</td>
          <td class="num">{{.Quantity}}</td>
          <td class="num">{{.UnitAmount}}</td>
          <td class="num">{{money .Total}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div><span>Subtotal</span><span>{{money .Totals.Subtotal}}</span></div>
      <div><span>Tax ({{.Invoice.Tax}}%)</span><span>{{money .Totals.TaxAmount}}</span></div>
      <div class="grand"><span>Total</span><span>{{money .Totals.GrandTotal}}</span></div>
    </div>

    <div class="footer">
      {{if .Invoice.Account.Name}}
      <div>Bank: {{.Invoice.Account.Name}} &middot; {{.Invoice.Account.Number}}{{if .Invoice.Account.SWIFT}} &middot; SWIFT {{.Invoice.Account.SWIFT}}{{end}}</div>
      {{end}}
      {{if .Invoice.Notes}}<div>{{.Invoice.Notes}}</div>{{end}}
    </div>
  </div>
</body>
</html>
`

var accentPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// HTMLRenderer lays an invoice out as a standalone HTML page. The layout
// variant is picked by template id; the page background is always opaque
// white regardless of the surrounding UI theme.
type HTMLRenderer struct {
	tpl *template.Template
}

type renderData struct {
	Invoice model.Invoice
	Totals  totals.Totals
	Accent  string
	Banded  bool
}

func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{"money": totals.Format}
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTML)),
	}
}

// Render produces the full HTML document for inv under the given template id.
// An unknown id renders with the default layout rather than failing.
func (r *HTMLRenderer) Render(inv model.Invoice, templateID string) (string, error) {
	info := tpl.Lookup(templateID)
	accent := info.Accent
	if !accentPattern.MatchString(accent) {
		accent = "#1f2937"
	}
	data := renderData{
		Invoice: inv,
		Totals:  totals.Compute(inv.Items, inv.Tax),
		Accent:  accent,
		Banded:  info.Banded,
	}
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
