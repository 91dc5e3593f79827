package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func TestMemoryNotifier(t *testing.T) {
	t.Run("records notices in order", func(t *testing.T) {
		n := NewMemoryNotifier()
		n.Info("first")
		n.Success("second")
		n.Error("third")

		notices := n.Notices()
		require.Len(t, notices, 3)
		assert.Equal(t, LevelInfo, notices[0].Level)
		assert.Equal(t, "first", notices[0].Message)
		assert.Equal(t, LevelSuccess, notices[1].Level)
		assert.Equal(t, LevelError, notices[2].Level)
	})

	t.Run("drain clears the buffer", func(t *testing.T) {
		n := NewMemoryNotifier()
		n.Info("one")

		drained := n.Drain()
		require.Len(t, drained, 1)
		assert.Empty(t, n.Notices())
	})

	t.Run("buffer is bounded", func(t *testing.T) {
		n := NewMemoryNotifier()
		for i := 0; i < maxBufferedNotices+10; i++ {
			n.Info("x")
		}
		assert.Len(t, n.Notices(), maxBufferedNotices)
	})
}

func TestMultiNotifier(t *testing.T) {
	a := NewMemoryNotifier()
	b := NewMemoryNotifier()
	multi := NewMultiNotifier(a, b, NewLogNotifier(zap.NewNop()))

	multi.Success("done")

	require.Len(t, a.Notices(), 1)
	require.Len(t, b.Notices(), 1)
	assert.Equal(t, "done", a.Notices()[0].Message)
}

func TestMessages(t *testing.T) {
	t.Run("vietnamese merge notice counts products", func(t *testing.T) {
		m := NewMessages("vi")
		assert.Contains(t, m.MergeAnnounce(1, 2), "1 sản phẩm")
		assert.Contains(t, m.MergeAnnounce(3, 1), "3 sản phẩm")
	})

	t.Run("english translation", func(t *testing.T) {
		m := NewMessages("en")
		assert.Equal(t, "Adding 2 items from your previous cart to 1 items already there", m.MergeAnnounce(2, 1))
		assert.Equal(t, "Added 1 of 3 items, some products reached their quantity limit", m.MergePartial(1, 3))
	})

	t.Run("unknown locale falls back to vietnamese", func(t *testing.T) {
		m := NewMessages("not-a-locale")
		assert.Contains(t, m.MergeFailed(), "Không thể đồng bộ")
	})

	t.Run("aggregate removal notice", func(t *testing.T) {
		m := NewMessages("vi")
		assert.Contains(t, m.ItemsRemoved(4), "4 sản phẩm")
	})
}
