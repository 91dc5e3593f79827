package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. All user-facing copy goes through the catalog so the
// storefront can serve Vietnamese by default and fall back to English.
const (
	msgMergeAnnounce       = "Đang thêm %d sản phẩm từ giỏ hàng trước đó vào %d sản phẩm có sẵn"
	msgMergePartial        = "Đã thêm %d/%d sản phẩm, một số sản phẩm đã đạt số lượng tối đa"
	msgMergeFailed         = "Không thể đồng bộ giỏ hàng, vui lòng thử lại"
	msgCartRefreshed       = "Giỏ hàng đã được cập nhật"
	msgItemRemoved         = "Đã xóa %s khỏi giỏ hàng"
	msgItemsRemoved        = "Đã xóa %d sản phẩm khỏi giỏ hàng"
	msgItemsRestored       = "Đã khôi phục %d sản phẩm"
	msgItemDeleteFailed    = "Không thể xóa sản phẩm, vui lòng thử lại"
	msgItemRestoreFailed   = "Không thể khôi phục sản phẩm, vui lòng tải lại trang"
	msgWishlistAdded       = "Đã thêm vào danh sách yêu thích"
	msgWishlistRemoved     = "Đã xóa khỏi danh sách yêu thích"
	msgWishlistItemExists  = "Sản phẩm đã có trong danh sách yêu thích"
	msgSessionExpired      = "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại"
	msgStorefrontUnreached = "Không thể kết nối tới máy chủ, vui lòng kiểm tra mạng"
)

func init() {
	// Vietnamese strings are the source keys; register English translations.
	entries := []struct{ key, en string }{
		{msgMergeAnnounce, "Adding %d items from your previous cart to %d items already there"},
		{msgMergePartial, "Added %d of %d items, some products reached their quantity limit"},
		{msgMergeFailed, "Could not sync your cart, please try again"},
		{msgCartRefreshed, "Your cart has been updated"},
		{msgItemRemoved, "Removed %s from your cart"},
		{msgItemsRemoved, "Removed %d items from your cart"},
		{msgItemsRestored, "Restored %d items"},
		{msgItemDeleteFailed, "Could not remove the item, please try again"},
		{msgItemRestoreFailed, "Could not restore the item, please reload the page"},
		{msgWishlistAdded, "Added to your wishlist"},
		{msgWishlistRemoved, "Removed from your wishlist"},
		{msgWishlistItemExists, "This product is already in your wishlist"},
		{msgSessionExpired, "Your session has expired, please sign in again"},
		{msgStorefrontUnreached, "Could not reach the server, please check your connection"},
	}
	for _, e := range entries {
		_ = message.SetString(language.Vietnamese, e.key, e.key)
		_ = message.SetString(language.English, e.key, e.en)
	}
}

// Messages renders user-facing notice copy for one locale
type Messages struct {
	printer *message.Printer
}

// NewMessages creates a message renderer for the given locale tag,
// e.g. "vi" or "en". Unknown locales fall back to Vietnamese.
func NewMessages(locale string) *Messages {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Vietnamese
	}
	return &Messages{printer: message.NewPrinter(tag)}
}

// MergeAnnounce tells the shopper how many guest items are being merged
// against how many pre-existing server items
func (m *Messages) MergeAnnounce(guestCount, serverCount int) string {
	return m.printer.Sprintf(msgMergeAnnounce, guestCount, serverCount)
}

// MergePartial announces a degraded merge where some lines were skipped
func (m *Messages) MergePartial(succeeded, total int) string {
	return m.printer.Sprintf(msgMergePartial, succeeded, total)
}

// MergeFailed announces a failed merge attempt
func (m *Messages) MergeFailed() string {
	return m.printer.Sprintf(msgMergeFailed)
}

// CartRefreshed announces that the local cart was replaced from the server
func (m *Messages) CartRefreshed() string {
	return m.printer.Sprintf(msgCartRefreshed)
}

// ItemRemoved announces one deferred removal
func (m *Messages) ItemRemoved(productName string) string {
	return m.printer.Sprintf(msgItemRemoved, productName)
}

// ItemsRemoved announces a batch removal with one aggregate notice
func (m *Messages) ItemsRemoved(count int) string {
	return m.printer.Sprintf(msgItemsRemoved, count)
}

// ItemsRestored announces that a batch undo brought items back
func (m *Messages) ItemsRestored(count int) string {
	return m.printer.Sprintf(msgItemsRestored, count)
}

// ItemDeleteFailed announces that committing a removal failed upstream
func (m *Messages) ItemDeleteFailed() string {
	return m.printer.Sprintf(msgItemDeleteFailed)
}

// ItemRestoreFailed announces that undoing a removal could not restore state
func (m *Messages) ItemRestoreFailed() string {
	return m.printer.Sprintf(msgItemRestoreFailed)
}

// WishlistAdded announces a wishlist addition
func (m *Messages) WishlistAdded() string {
	return m.printer.Sprintf(msgWishlistAdded)
}

// WishlistRemoved announces a wishlist removal
func (m *Messages) WishlistRemoved() string {
	return m.printer.Sprintf(msgWishlistRemoved)
}

// WishlistItemExists announces a rejected duplicate wishlist addition
func (m *Messages) WishlistItemExists() string {
	return m.printer.Sprintf(msgWishlistItemExists)
}

// SessionExpired announces an expired session token
func (m *Messages) SessionExpired() string {
	return m.printer.Sprintf(msgSessionExpired)
}

// StorefrontUnreachable announces a network-level failure
func (m *Messages) StorefrontUnreachable() string {
	return m.printer.Sprintf(msgStorefrontUnreached)
}
