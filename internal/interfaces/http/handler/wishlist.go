package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appwishlist "github.com/shopfront/backend/internal/application/wishlist"
	"github.com/shopfront/backend/internal/infrastructure/scheduler"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
)

// WishlistHandler exposes the identity-scoped wishlist
type WishlistHandler struct {
	store  *appwishlist.Store
	undo   *scheduler.DeferredDeletionScheduler
	logger *zap.Logger
}

// NewWishlistHandler creates a wishlist handler
func NewWishlistHandler(store *appwishlist.Store, undo *scheduler.DeferredDeletionScheduler, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		store:  store,
		undo:   undo,
		logger: logger.Named("wishlist_handler"),
	}
}

// RegisterRoutes registers wishlist routes
func (h *WishlistHandler) RegisterRoutes(rg *gin.RouterGroup) {
	wishlist := rg.Group("/wishlist")
	{
		wishlist.GET("", h.GetWishlist)
		wishlist.POST("/toggle", h.Toggle)
		wishlist.GET("/contains/:productId", h.Contains)
		wishlist.DELETE("/items/:id", h.RemoveItem)
		wishlist.POST("/items/:id/undo", h.UndoRemove)
	}
}

// GetWishlist returns the current identity's visible wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	// Resolve lazily so the first request after an identity change reloads
	if err := h.store.LoadIdentity(c.Request.Context()); err != nil {
		respondError(c, dto.ErrCodeInternal, err.Error())
		return
	}

	items := h.store.Snapshot()
	resp := dto.WishlistResponse{
		Identity: h.store.Identity().String(),
		Items:    make([]dto.WishlistItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.NewWishlistItemResponse(item))
	}
	respondSuccess(c, resp)
}

// Toggle adds the product when absent, removes it when present
func (h *WishlistHandler) Toggle(c *gin.Context) {
	var req dto.ToggleWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.store.LoadIdentity(c.Request.Context()); err != nil {
		respondError(c, dto.ErrCodeInternal, err.Error())
		return
	}

	inWishlist := h.store.Toggle(c.Request.Context(), req.ToItem())
	respondSuccess(c, gin.H{"product_id": req.ProductID, "in_wishlist": inWishlist})
}

// Contains reports whether the product is wishlisted
func (h *WishlistHandler) Contains(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(c, dto.ErrCodeBadRequest, "invalid product id")
		return
	}
	respondSuccess(c, gin.H{"product_id": productID, "in_wishlist": h.store.IsInWishlist(productID)})
}

// RemoveItem removes an entry optimistically with an undo grace period
func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, found := h.store.ItemByID(id); !found {
		respondError(c, dto.ErrCodeNotFound, "wishlist item not found")
		return
	}

	snapshot := h.store.Snapshot()
	h.store.RemoveItem(c.Request.Context(), id)

	// The wishlist has no server copy; the local persistence is final,
	// so the commit is a no-op and only the undo window matters.
	h.undo.ScheduleDelete(wishlistItemKey(id),
		func() error { return nil },
		func() {
			h.store.SetItems(context.Background(), snapshot)
		},
	)

	respondSuccess(c, gin.H{"id": id, "undoable": true})
}

// UndoRemove cancels one staged wishlist removal
func (h *WishlistHandler) UndoRemove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	undone := h.undo.Undo(wishlistItemKey(id))
	respondSuccess(c, gin.H{"undone": undone})
}

// wishlistItemKey derives the undo registry key for a wishlist entry
func wishlistItemKey(id int64) string {
	return "wishlist-item-" + strconv.FormatInt(id, 10)
}
