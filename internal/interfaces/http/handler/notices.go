package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopfront/backend/internal/infrastructure/notify"
)

// NoticeHandler drains buffered user-facing notices so a polling client
// can surface them as toasts.
type NoticeHandler struct {
	notices *notify.MemoryNotifier
}

// NewNoticeHandler creates a notice handler
func NewNoticeHandler(notices *notify.MemoryNotifier) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

// RegisterRoutes registers notice routes
func (h *NoticeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notices", h.DrainNotices)
}

// DrainNotices returns pending notices and clears the buffer. Each
// notice is delivered to at most one caller.
func (h *NoticeHandler) DrainNotices(c *gin.Context) {
	notices := h.notices.Drain()
	if notices == nil {
		notices = []notify.Notice{}
	}
	respondSuccess(c, gin.H{"notices": notices})
}
