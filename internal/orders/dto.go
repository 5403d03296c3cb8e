package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the POST /orders body.
type CreateOrderRequest struct {
	Lines                 []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
	RequestedDeliveryDate *time.Time         `json:"requestedDeliveryDate"`
	SupplierID            *uuid.UUID         `json:"supplierId"`
	Notes                 *string            `json:"notes" validate:"omitempty,max=500"`
}

// OrderLineRequest is one requested line.
type OrderLineRequest struct {
	MaterialCode string          `json:"materialCode" validate:"required,max=30"`
	MaterialName string          `json:"materialName" validate:"required,max=120"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

func (r CreateOrderRequest) toInput(source, prefix string) CreateInput {
	input := CreateInput{
		RequestedDeliveryDate: r.RequestedDeliveryDate,
		SupplierID:            r.SupplierID,
		Notes:                 r.Notes,
		SourceApplication:     source,
		SourcePrefix:          prefix,
	}
	for _, l := range r.Lines {
		input.Lines = append(input.Lines, LineInput{
			MaterialCode: l.MaterialCode,
			MaterialName: l.MaterialName,
			Quantity:     l.Quantity,
			Unit:         l.Unit,
			UnitPrice:    l.UnitPrice,
		})
	}
	return input
}
