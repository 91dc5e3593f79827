package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	err := NewDomainError("INVALID_QUANTITY", "Quantity must be positive")

	assert.Equal(t, "Quantity must be positive", err.Error())
	assert.Equal(t, "INVALID_QUANTITY", err.Code)

	var domainErr *DomainError
	require.True(t, errors.As(error(err), &domainErr))
	assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
}
