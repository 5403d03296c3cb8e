// Package orders accepts purchase-order writes from client applications under
// transactional and authorization guarantees.
package orders

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order lifecycle statuses. No endpoint mutates status here; orders
// are created Pending and transition out of band.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusApproved       Status = "Approved"
	StatusSentToSupplier Status = "SentToSupplier"
	StatusReceived       Status = "Received"
	StatusCancelled      Status = "Cancelled"
)

// PurchaseOrder is an immutable order header once its lines are attached.
// TotalAmount always equals the sum of the line totals.
type PurchaseOrder struct {
	ID                    uuid.UUID       `json:"id"`
	OrderNumber           string          `json:"orderNumber"`
	SourceApplication     string          `json:"sourceApplication"`
	Status                Status          `json:"status"`
	SupplierID            *uuid.UUID      `json:"supplierId,omitempty"`
	Notes                 *string         `json:"notes,omitempty"`
	RequestedDeliveryDate *time.Time      `json:"requestedDeliveryDate,omitempty"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Currency              string          `json:"currency"`
	CreatedAt             time.Time       `json:"createdAt"`
	Lines                 []Line          `json:"lines"`
}

// Line is one order position. Material code and name are a denormalized
// snapshot, independent of the live stock item.
type Line struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"-"`
	MaterialCode string          `json:"materialCode"`
	MaterialName string          `json:"materialName"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

var (
	// ErrNotFound indicates an unknown order id.
	ErrNotFound = errors.New("orders: not found")
	// ErrValidation indicates a semantically invalid request; the whole batch
	// is rejected, never a partial one.
	ErrValidation = errors.New("orders: invalid input")
	// ErrNumberExhausted occurs when order number generation keeps colliding.
	ErrNumberExhausted = errors.New("orders: order number generation exhausted")
	// ErrDuplicateNumber surfaces the store's unique constraint on order_number.
	ErrDuplicateNumber = errors.New("orders: duplicate order number")
)
