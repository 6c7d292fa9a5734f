package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/tx"
	"motordesk/internal/domain/notification"
	"motordesk/internal/infrastructure/http/v1/dto"
)

// NotificationHandler dispatches ad-hoc operator notifications.
type NotificationHandler struct {
	*BaseHandler
	dispatcher notification.Dispatcher
	txManager  tx.Manager
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(base *BaseHandler, dispatcher notification.Dispatcher, txManager tx.Manager) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler: base,
		dispatcher:  dispatcher,
		txManager:   txManager,
	}
}

// Send handles POST /notifications.
// The dispatcher enqueues into the outbox, so the send runs in its own
// transaction; the worker relays it from there.
func (h *NotificationHandler) Send(c *gin.Context) {
	var req dto.SendNotificationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if req.Priority != "" {
		p := notification.Priority(req.Priority)
		if p != notification.PriorityNormal && p != notification.PriorityHigh {
			h.Error(c, apperror.NewValidation("unknown priority").WithDetail("value", req.Priority))
			return
		}
	}

	msg := req.ToMessage()
	err := h.txManager.RunInTransaction(c.Request.Context(), func(ctx context.Context) error {
		return h.dispatcher.Send(ctx, msg)
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.SuccessResponse{
		Success: true,
		Message: "notification queued",
	})
}
