package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/backend/internal/domain/shared"
)

func TestItem_Validate(t *testing.T) {
	valid := Item{
		ProductID:   11,
		ProductName: "Phone",
		Price:       decimal.NewFromInt(500),
		Quantity:    2,
	}

	t.Run("valid line passes", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	tests := []struct {
		name     string
		mutate   func(*Item)
		wantCode string
	}{
		{"missing product", func(i *Item) { i.ProductID = 0 }, "INVALID_PRODUCT"},
		{"zero quantity", func(i *Item) { i.Quantity = 0 }, "INVALID_QUANTITY"},
		{"negative price", func(i *Item) { i.Price = decimal.NewFromInt(-1) }, "INVALID_PRICE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid
			tt.mutate(&item)

			err := item.Validate()
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestItem_Subtotal(t *testing.T) {
	applied := decimal.NewFromInt(400)
	item := Item{
		ProductID:    11,
		Price:        decimal.NewFromInt(500),
		AppliedPrice: &applied,
		Quantity:     3,
	}

	assert.Equal(t, "400", item.EffectiveUnitPrice().String())
	assert.Equal(t, "1200", item.Subtotal().String())

	item.AppliedPrice = nil
	assert.Equal(t, "1500", item.Subtotal().String())
}
