package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind distinguishes anonymous shoppers from authenticated ones
type Kind string

const (
	KindGuest Kind = "guest"
	KindUser  Kind = "user"
)

// Identity scopes locally persisted shopper state. A guest identity wraps
// a durable, randomly generated device token; a user identity wraps the
// authenticated principal's user ID. At most one identity is current for
// a given store at any time.
type Identity struct {
	kind  Kind
	token string
}

// Zero is the absent identity.
var Zero = Identity{}

// NewGuest creates a guest identity from an existing device token
func NewGuest(token string) Identity {
	return Identity{kind: KindGuest, token: token}
}

// NewRandomGuest creates a guest identity with a freshly generated token
func NewRandomGuest() Identity {
	return Identity{kind: KindGuest, token: uuid.NewString()}
}

// NewUser creates a user identity from an authenticated user ID
func NewUser(userID string) Identity {
	return Identity{kind: KindUser, token: userID}
}

// Kind returns the identity kind
func (i Identity) Kind() Kind {
	return i.kind
}

// Token returns the raw guest token or user ID
func (i Identity) Token() string {
	return i.token
}

// IsZero reports whether the identity is absent
func (i Identity) IsZero() bool {
	return i == Zero
}

// IsGuest reports whether the identity belongs to an anonymous shopper
func (i Identity) IsGuest() bool {
	return i.kind == KindGuest
}

// IsUser reports whether the identity belongs to an authenticated shopper
func (i Identity) IsUser() bool {
	return i.kind == KindUser
}

// String renders the identity as a stable storage key component,
// e.g. "guest-3f2a..." or "user-42".
func (i Identity) String() string {
	if i.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s-%s", i.kind, i.token)
}

// Parse reconstructs an Identity from its String form
func Parse(s string) (Identity, error) {
	kind, token, ok := strings.Cut(s, "-")
	if !ok || token == "" {
		return Zero, fmt.Errorf("identity: malformed identity %q", s)
	}
	switch Kind(kind) {
	case KindGuest:
		return NewGuest(token), nil
	case KindUser:
		return NewUser(token), nil
	}
	return Zero, fmt.Errorf("identity: unknown identity kind %q", kind)
}

// Principal is the authenticated subject exposed by the auth provider.
// A nil *Principal means "no one is signed in".
type Principal struct {
	UserID   string
	Username string
}

// Identity derives the user identity for the principal
func (p *Principal) Identity() Identity {
	if p == nil {
		return Zero
	}
	return NewUser(p.UserID)
}

// Equal reports whether two principals refer to the same subject
func (p *Principal) Equal(other *Principal) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.UserID == other.UserID
}
