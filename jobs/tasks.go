// Package jobs runs background work over Redis-backed queues.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mutevazi/depo-api/internal/orders"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSupplierNotify is the task type for outbound supplier webhooks.
	TaskTypeSupplierNotify = "supplier:notify_order"
)

// maxNotifyRetries bounds webhook delivery attempts per task.
const maxNotifyRetries = 5

// SupplierNotifyPayload identifies the committed order to announce. Only the
// id travels through the queue; the handler reloads current order state so a
// replayed task stays harmless.
type SupplierNotifyPayload struct {
	OrderID uuid.UUID `json:"order_id"`
}

// NewSupplierNotifyTask constructs the notification task.
func NewSupplierNotifyTask(orderID uuid.UUID) (*asynq.Task, error) {
	data, err := json.Marshal(SupplierNotifyPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSupplierNotify, data, asynq.Queue(QueueDefault), asynq.MaxRetry(maxNotifyRetries)), nil
}

// OrderReader loads committed purchase orders for delivery.
type OrderReader interface {
	Get(ctx context.Context, id uuid.UUID) (orders.PurchaseOrder, error)
}

// SupplierNotifier processes supplier notification tasks.
type SupplierNotifier struct {
	orders  OrderReader
	sender  *WebhookSender
	logger  *slog.Logger
	timeout time.Duration
}

// NewSupplierNotifier builds the task handler.
func NewSupplierNotifier(reader OrderReader, sender *WebhookSender, logger *slog.Logger, timeout time.Duration) *SupplierNotifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SupplierNotifier{orders: reader, sender: sender, logger: logger, timeout: timeout}
}

// HandleSupplierNotify delivers one signed webhook for a committed order.
func (n *SupplierNotifier) HandleSupplierNotify(ctx context.Context, t *asynq.Task) error {
	var payload SupplierNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	order, err := n.orders.Get(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			// Never committed or since removed; retrying cannot help.
			n.logger.Warn("supplier notify: order not found", slog.String("order_id", payload.OrderID.String()))
			return asynq.SkipRetry
		}
		return err
	}

	if err := n.sender.Send(ctx, order); err != nil {
		n.logger.Warn("supplier notify failed",
			slog.String("order_number", order.OrderNumber),
			slog.Any("error", err))
		return err
	}
	n.logger.Info("supplier notified", slog.String("order_number", order.OrderNumber))
	return nil
}
