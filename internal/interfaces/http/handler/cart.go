package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcart "github.com/shopfront/backend/internal/application/cart"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/integration"
	"github.com/shopfront/backend/internal/infrastructure/scheduler"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
)

// CartHandler exposes the cart store, the sync coordinator's state, and
// the undoable removal flow.
type CartHandler struct {
	store      *appcart.Store
	coord      *appcart.Coordinator
	undo       *scheduler.DeferredDeletionScheduler
	api        integration.CartAPI
	principals identity.PrincipalSource
	logger     *zap.Logger
}

// NewCartHandler creates a cart handler
func NewCartHandler(
	store *appcart.Store,
	coord *appcart.Coordinator,
	undo *scheduler.DeferredDeletionScheduler,
	api integration.CartAPI,
	principals identity.PrincipalSource,
	logger *zap.Logger,
) *CartHandler {
	return &CartHandler{
		store:      store,
		coord:      coord,
		undo:       undo,
		api:        api,
		principals: principals,
		logger:     logger.Named("cart_handler"),
	}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:id", h.UpdateQuantity)
		cart.DELETE("/items/:id", h.RemoveItem)
		cart.POST("/items/:id/undo", h.UndoRemove)
		cart.POST("/undo", h.UndoRemoveMultiple)
	}
}

// GetCart returns the cart with derived aggregates
func (h *CartHandler) GetCart(c *gin.Context) {
	items := h.store.Snapshot()
	resp := dto.CartResponse{
		Items:      make([]dto.CartItemResponse, 0, len(items)),
		TotalItems: h.store.TotalItems(),
		TotalPrice: h.store.TotalPrice(),
		SyncState:  string(h.coord.State()),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.NewCartItemResponse(item))
	}
	respondSuccess(c, resp)
}

// AddItem adds a line, merging variants on (product, color, storage)
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	item := req.ToItem()
	if err := item.Validate(); err != nil {
		respondError(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	added := h.store.AddItem(c.Request.Context(), item)
	respondSuccess(c, dto.NewCartItemResponse(added))
}

// UpdateQuantity sets a line's quantity; zero removes the line
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if _, found := h.store.ItemByID(id); !found {
		respondError(c, dto.ErrCodeNotFound, "cart item not found")
		return
	}

	h.store.UpdateQuantity(c.Request.Context(), id, req.Quantity)
	respondSuccess(c, gin.H{"id": id, "quantity": req.Quantity})
}

// RemoveItem removes a line optimistically and stages the irreversible
// upstream removal behind the undo grace period.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, found := h.store.ItemByID(id)
	if !found {
		respondError(c, dto.ErrCodeNotFound, "cart item not found")
		return
	}

	// The pre-removal snapshot is what an undo puts back
	snapshot := h.store.Snapshot()
	h.store.RemoveItem(c.Request.Context(), id)

	token := h.principals.SessionToken()
	productID := item.ProductID
	h.undo.ScheduleDelete(cartItemKey(id),
		func() error {
			if token == "" {
				// Guest carts have no server copy; local persistence is final
				return nil
			}
			return h.api.RemoveFromCart(context.Background(), token, productID)
		},
		func() {
			h.store.SetItems(context.Background(), snapshot)
		},
	)

	respondSuccess(c, gin.H{"id": id, "undoable": true})
}

// UndoRemove cancels one staged removal
func (h *CartHandler) UndoRemove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	undone := h.undo.Undo(cartItemKey(id))
	respondSuccess(c, gin.H{"undone": undone})
}

// UndoRemoveMultiple cancels several staged removals with one notice
func (h *CartHandler) UndoRemoveMultiple(c *gin.Context) {
	var req dto.UndoItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	keys := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		keys = append(keys, cartItemKey(id))
	}
	undone := h.undo.UndoMultiple(keys)
	respondSuccess(c, gin.H{"undone": undone})
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.store.Clear(c.Request.Context())
	respondSuccess(c, gin.H{"cleared": true})
}

// cartItemKey derives the undo registry key for a cart line
func cartItemKey(id int64) string {
	return "cart-item-" + strconv.FormatInt(id, 10)
}

// parseID extracts the numeric :id path parameter
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, dto.ErrCodeBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}
