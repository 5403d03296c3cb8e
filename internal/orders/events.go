package orders

import (
	"context"

	"github.com/google/uuid"
)

// Notifier hands a committed order off for asynchronous supplier notification.
// The handoff is decoupled from the creating transaction: implementations may
// retry delivery, and delivering the same order id twice is safe because the
// supplier deduplicates on it.
type Notifier interface {
	NotifyNewOrder(ctx context.Context, orderID uuid.UUID) error
}
