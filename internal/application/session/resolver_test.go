package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
)

// stubPrincipals is a fixed principal source for tests
type stubPrincipals struct {
	principal *identity.Principal
	token     string
}

func (s *stubPrincipals) Current() *identity.Principal { return s.principal }
func (s *stubPrincipals) SessionToken() string         { return s.token }
func (s *stubPrincipals) Subscribe(identity.TransitionListener) func() {
	return func() {}
}

func TestResolver_GuestIdentityIsDurable(t *testing.T) {
	keyed := persistence.NewMemoryKeyedStore()
	r := NewResolver(keyed, &stubPrincipals{}, zap.NewNop())

	first, err := r.GuestIdentity(context.Background())
	require.NoError(t, err)
	assert.True(t, first.IsGuest())
	assert.NotEmpty(t, first.Token())

	second, err := r.GuestIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A fresh resolver over the same store recovers the same token
	other := NewResolver(keyed, &stubPrincipals{}, zap.NewNop())
	recovered, err := other.GuestIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, recovered)
}

func TestResolver_CurrentIdentity(t *testing.T) {
	t.Run("guest when nobody is signed in", func(t *testing.T) {
		r := NewResolver(persistence.NewMemoryKeyedStore(), &stubPrincipals{}, zap.NewNop())
		id, err := r.CurrentIdentity(context.Background())
		require.NoError(t, err)
		assert.True(t, id.IsGuest())
	})

	t.Run("user identity when signed in", func(t *testing.T) {
		principals := &stubPrincipals{principal: &identity.Principal{UserID: "u-7"}}
		r := NewResolver(persistence.NewMemoryKeyedStore(), principals, zap.NewNop())

		id, err := r.CurrentIdentity(context.Background())
		require.NoError(t, err)
		assert.True(t, id.IsUser())
		assert.Equal(t, "user-u-7", id.String())
	})
}
