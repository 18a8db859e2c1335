// Package identity is the seam to the external identity provider. The core
// only ever asks whether a caller is signed in; identity details never cross
// this boundary.
package identity

import "context"

// Provider exposes the signed-in state and a way to start a sign-in.
type Provider interface {
	SignedIn(ctx context.Context) bool
	// PromptSignIn asks the provider to begin its sign-in flow. It returns
	// immediately; completion is observed through SignedIn.
	PromptSignIn()
}

// Static is a fixed-answer provider for development and tests.
type Static bool

func (s Static) SignedIn(context.Context) bool { return bool(s) }
func (Static) PromptSignIn()                   {}
