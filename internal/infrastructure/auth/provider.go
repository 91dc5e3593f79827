package auth

import (
	"sync"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/identity"
)

// Listener is invoked on every sign-in or sign-out transition. Either
// side may be nil: (nil, p) is a sign-in, (p, nil) a sign-out, and
// (a, b) an account switch.
type Listener = identity.TransitionListener

// Provider tracks the shopper currently bound to this session process
// and fans out transition events. Cart and wishlist stores subscribe to
// react to sign-in and sign-out.
type Provider struct {
	verifier *SessionVerifier
	logger   *zap.Logger

	mu         sync.Mutex
	principal  *identity.Principal
	token      string
	listeners  map[int]Listener
	nextHandle int
}

// NewProvider creates an identity provider backed by the given verifier
func NewProvider(verifier *SessionVerifier, logger *zap.Logger) *Provider {
	return &Provider{
		verifier:  verifier,
		logger:    logger.Named("auth"),
		listeners: make(map[int]Listener),
	}
}

// SetToken verifies a session token and installs its principal as the
// current shopper. Listeners are notified when the principal changes.
func (p *Provider) SetToken(token string) (*identity.Principal, error) {
	principal, err := p.verifier.Verify(token)
	if err != nil {
		p.logger.Warn("rejected session token", zap.Error(err))
		return nil, err
	}

	p.mu.Lock()
	previous := p.principal
	if previous.Equal(principal) {
		// Same shopper re-presenting a token refreshes it without a transition
		p.token = token
		p.mu.Unlock()
		return principal, nil
	}
	p.principal = principal
	p.token = token
	listeners := p.snapshotListeners()
	p.mu.Unlock()

	p.logger.Info("shopper signed in", zap.String("user_id", principal.UserID))
	for _, listener := range listeners {
		listener(previous, principal)
	}
	return principal, nil
}

// Clear signs the current shopper out. It is a no-op when nobody is
// signed in.
func (p *Provider) Clear() {
	p.mu.Lock()
	previous := p.principal
	if previous == nil {
		p.mu.Unlock()
		return
	}
	p.principal = nil
	p.token = ""
	listeners := p.snapshotListeners()
	p.mu.Unlock()

	p.logger.Info("shopper signed out", zap.String("user_id", previous.UserID))
	for _, listener := range listeners {
		listener(previous, nil)
	}
}

// Current returns the signed-in principal, or nil for a guest session
func (p *Provider) Current() *identity.Principal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.principal
}

// SessionToken returns the raw token of the signed-in shopper, empty for guests
func (p *Provider) SessionToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

// Subscribe registers a transition listener and returns a cancel function
func (p *Provider) Subscribe(listener Listener) (cancel func()) {
	p.mu.Lock()
	handle := p.nextHandle
	p.nextHandle++
	p.listeners[handle] = listener
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, handle)
		p.mu.Unlock()
	}
}

// snapshotListeners copies the listener set; callers must hold p.mu.
// Delivery happens outside the lock so listeners may call back into
// the provider.
func (p *Provider) snapshotListeners() []Listener {
	listeners := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	return listeners
}

// Ensure Provider satisfies the domain-facing contract
var _ identity.PrincipalSource = (*Provider)(nil)
