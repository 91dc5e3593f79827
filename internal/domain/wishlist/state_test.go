package wishlist

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(productID int64) Item {
	return Item{
		ProductID:   productID,
		ProductName: "Product",
		Price:       decimal.NewFromInt(100),
		InStock:     true,
	}
}

func TestState_AddItemRejectsDuplicates(t *testing.T) {
	s := NewState()

	added, ok := s.AddItem(entry(1))
	require.True(t, ok)
	assert.Equal(t, int64(1), added.ID)

	_, ok = s.AddItem(entry(1))
	assert.False(t, ok)
	assert.Len(t, s.Items, 1)
}

func TestState_Toggle(t *testing.T) {
	s := NewState()

	assert.True(t, s.Toggle(entry(1)))
	assert.True(t, s.Contains(1))

	assert.False(t, s.Toggle(entry(1)))
	assert.False(t, s.Contains(1))
	assert.Empty(t, s.Items)
}

func TestState_RemoveByProductID(t *testing.T) {
	s := NewState()
	s.AddItem(entry(1))
	s.AddItem(entry(2))

	assert.True(t, s.RemoveByProductID(1))
	assert.False(t, s.RemoveByProductID(1))
	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(2), s.Items[0].ProductID)
}

func TestState_RemoveUnknownIDIsNoOp(t *testing.T) {
	s := NewState()
	s.AddItem(entry(1))
	s.RemoveItem(999)
	assert.Len(t, s.Items, 1)
}

func TestState_SetItemsReplacesWholesale(t *testing.T) {
	s := NewState()
	s.AddItem(entry(1))

	s.SetItems([]Item{{ID: 7, ProductID: 9}})

	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(9), s.Items[0].ProductID)
	assert.False(t, s.Contains(1))
}
