package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID int64, quantity int, price int64) Item {
	return Item{
		ProductID:   productID,
		ProductName: "Product",
		Price:       decimal.NewFromInt(price),
		Quantity:    quantity,
	}
}

func TestState_AddItemMergesVariants(t *testing.T) {
	t.Run("same variant sums quantity", func(t *testing.T) {
		s := NewState()
		s.AddItem(line(1, 2, 100))
		s.AddItem(line(1, 3, 100))

		require.Len(t, s.Items, 1)
		assert.Equal(t, 5, s.Items[0].Quantity)
		assert.Equal(t, 5, s.TotalItems)
	})

	t.Run("different color is a separate line", func(t *testing.T) {
		s := NewState()
		black := line(1, 1, 100)
		black.Color = "black"
		white := line(1, 1, 100)
		white.Color = "white"

		s.AddItem(black)
		s.AddItem(white)
		assert.Len(t, s.Items, 2)
	})

	t.Run("different storage is a separate line", func(t *testing.T) {
		s := NewState()
		small := line(1, 1, 100)
		small.Storage = "128GB"
		big := line(1, 1, 100)
		big.Storage = "256GB"

		s.AddItem(small)
		s.AddItem(big)
		assert.Len(t, s.Items, 2)
	})
}

func TestState_IDAllocation(t *testing.T) {
	s := NewState()
	first := s.AddItem(line(1, 1, 100))
	second := s.AddItem(line(2, 1, 100))
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	// Removing the highest line frees its ID for reuse
	s.RemoveItem(second.ID)
	third := s.AddItem(line(3, 1, 100))
	assert.Equal(t, int64(2), third.ID)
}

func TestState_Aggregates(t *testing.T) {
	s := NewState()
	s.AddItem(line(1, 2, 100))

	discounted := line(2, 3, 200)
	applied := decimal.NewFromInt(150)
	discounted.AppliedPrice = &applied
	s.AddItem(discounted)

	assert.Equal(t, 5, s.TotalItems)
	// 2*100 + 3*150, the applied price wins over the base price
	assert.True(t, decimal.NewFromInt(650).Equal(s.TotalPrice))
}

func TestState_RemoveUnknownIDIsNoOp(t *testing.T) {
	s := NewState()
	s.AddItem(line(1, 2, 100))
	before := s.TotalPrice

	s.RemoveItem(999)

	assert.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.TotalItems)
	assert.True(t, before.Equal(s.TotalPrice))
}

func TestState_RemoveItems(t *testing.T) {
	s := NewState()
	a := s.AddItem(line(1, 1, 100))
	s.AddItem(line(2, 1, 100))
	c := s.AddItem(line(3, 1, 100))

	s.RemoveItems([]int64{a.ID, c.ID, 999})

	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(2), s.Items[0].ProductID)
}

func TestState_UpdateQuantity(t *testing.T) {
	s := NewState()
	item := s.AddItem(line(1, 2, 100))

	s.UpdateQuantity(item.ID, 7)
	assert.Equal(t, 7, s.TotalItems)
	assert.True(t, decimal.NewFromInt(700).Equal(s.TotalPrice))

	// Zero or negative removes the line
	s.UpdateQuantity(item.ID, 0)
	assert.True(t, s.IsEmpty())
}

func TestState_SetItemsDiscardsPriorState(t *testing.T) {
	s := NewState()
	s.AddItem(line(1, 2, 100))

	s.SetItems([]Item{
		{ID: 1, ProductID: 9, Price: decimal.NewFromInt(50), Quantity: 4},
	})

	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(9), s.Items[0].ProductID)
	assert.Equal(t, 4, s.TotalItems)
	assert.True(t, decimal.NewFromInt(200).Equal(s.TotalPrice))
}

func TestState_ClearResetsAggregates(t *testing.T) {
	s := NewState()
	s.AddItem(line(1, 2, 100))
	s.Clear()

	assert.True(t, s.IsEmpty())
	assert.Zero(t, s.TotalItems)
	assert.True(t, s.TotalPrice.IsZero())
}

func TestCodec_RoundTrip(t *testing.T) {
	applied := decimal.NewFromFloat(89.99)
	items := []Item{
		{ID: 1, ProductID: 5, ProductName: "Phone", Price: decimal.NewFromFloat(99.99), AppliedPrice: &applied, Quantity: 2, Color: "black"},
	}

	raw, err := EncodeItems(items)
	require.NoError(t, err)

	decoded, err := DecodeItems(raw)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, items[0].ProductID, decoded[0].ProductID)
	assert.True(t, applied.Equal(*decoded[0].AppliedPrice))
}

func TestCodec_EmptyBytesDecodeToNil(t *testing.T) {
	decoded, err := DecodeItems(nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}
