package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adega-delivery/backend/internal/adapter/logger"
	"github.com/adega-delivery/backend/internal/interfaces"
)

// NotificationHandler consumes lifecycle status updates from the fanout
// exchange and logs them for back-office dashboards.
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{logger: logger}
}

func (h *NotificationHandler) HandleStatusChange(ctx context.Context, body []byte) error {
	var msg interfaces.StatusChangedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse status change", "", nil, err)
		return err
	}

	details := map[string]interface{}{
		"order_id":   msg.OrderID,
		"order_type": msg.OrderType,
		"old_status": msg.OldStatus,
		"new_status": msg.NewStatus,
	}
	if msg.MotoboyID != nil {
		details["motoboy_id"] = *msg.MotoboyID
	}

	h.logger.Info("status_change_received",
		fmt.Sprintf("Order %s: %s -> %s", msg.OrderID, msg.OldStatus, msg.NewStatus),
		msg.OrderID, details)

	return nil
}
