package identity

// TransitionListener is invoked on every sign-in or sign-out transition.
// Either side may be nil: (nil, p) is a sign-in, (p, nil) a sign-out,
// and (a, b) an account switch.
type TransitionListener func(previous, current *Principal)

// PrincipalSource exposes the shopper currently bound to the session
// process as a reactive signal. The cart sync coordinator and the
// wishlist identity resolution subscribe to its transitions.
type PrincipalSource interface {
	// Current returns the signed-in principal, or nil for a guest session
	Current() *Principal

	// SessionToken returns the raw session token, empty for guests
	SessionToken() string

	// Subscribe registers a transition listener and returns a cancel function
	Subscribe(listener TransitionListener) (cancel func())
}
