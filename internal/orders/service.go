package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mutevazi/depo-api/internal/shared"
)

// numberAttempts bounds order number regeneration on collision.
const numberAttempts = 5

// defaultCurrency for new orders.
const defaultCurrency = "TRY"

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id uuid.UUID) (PurchaseOrder, error)
	ListBySource(ctx context.Context, source string, page shared.Page) ([]PurchaseOrder, error)
}

// Service orchestrates purchase order creation and reads.
type Service struct {
	repo     RepositoryPort
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs the order service.
func NewService(repo RepositoryPort, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger, now: time.Now}
}

// LineInput is one requested order position.
type LineInput struct {
	MaterialCode string
	MaterialName string
	Quantity     decimal.Decimal
	Unit         string
	UnitPrice    decimal.Decimal
}

// CreateInput describes an order creation request.
type CreateInput struct {
	Lines                 []LineInput
	RequestedDeliveryDate *time.Time
	SupplierID            *uuid.UUID
	Notes                 *string
	SourceApplication     string
	SourcePrefix          string
}

// Create validates, numbers, persists and totals a multi-line purchase order
// as one atomic unit, then hands the committed order off for supplier
// notification. Scope authorization happens at the HTTP boundary; business
// preconditions are re-validated here regardless of caller trust.
func (s *Service) Create(ctx context.Context, input CreateInput) (PurchaseOrder, error) {
	if len(input.Lines) == 0 {
		return PurchaseOrder{}, fmt.Errorf("%w: at least one line required", ErrValidation)
	}
	for _, line := range input.Lines {
		if line.MaterialCode == "" || line.MaterialName == "" {
			return PurchaseOrder{}, fmt.Errorf("%w: material code and name required", ErrValidation)
		}
		if !line.Quantity.IsPositive() {
			return PurchaseOrder{}, fmt.Errorf("%w: quantity for %s must be greater than zero", ErrValidation, line.MaterialCode)
		}
		if line.UnitPrice.IsNegative() {
			return PurchaseOrder{}, fmt.Errorf("%w: unit price for %s must not be negative", ErrValidation, line.MaterialCode)
		}
	}

	now := s.now().UTC()
	order := PurchaseOrder{
		ID:                    uuid.New(),
		SourceApplication:     input.SourceApplication,
		Status:                StatusPending,
		SupplierID:            input.SupplierID,
		Notes:                 input.Notes,
		RequestedDeliveryDate: input.RequestedDeliveryDate,
		Currency:              defaultCurrency,
		CreatedAt:             now,
	}
	for _, line := range input.Lines {
		lineTotal := line.Quantity.Mul(line.UnitPrice).Round(2)
		order.Lines = append(order.Lines, Line{
			ID:           uuid.New(),
			OrderID:      order.ID,
			MaterialCode: line.MaterialCode,
			MaterialName: line.MaterialName,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			UnitPrice:    line.UnitPrice,
			LineTotal:    lineTotal,
		})
		order.TotalAmount = order.TotalAmount.Add(lineTotal)
	}

	// The unique index on order_number is the concurrency gate: on collision
	// the whole transaction is retried with a fresh number, a bounded number
	// of times.
	var committed bool
	for attempt := 0; attempt < numberAttempts && !committed; attempt++ {
		order.OrderNumber = generateNumber(input.SourcePrefix, now)
		err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			if err := tx.InsertOrder(ctx, order); err != nil {
				return err
			}
			for _, line := range order.Lines {
				if err := tx.InsertLine(ctx, line); err != nil {
					return err
				}
			}
			return nil
		})
		switch {
		case err == nil:
			committed = true
		case errors.Is(err, ErrDuplicateNumber):
			continue
		default:
			return PurchaseOrder{}, err
		}
	}
	if !committed {
		return PurchaseOrder{}, ErrNumberExhausted
	}

	s.logger.Info("purchase order created",
		slog.String("order_number", order.OrderNumber),
		slog.String("source", order.SourceApplication),
		slog.String("total", order.TotalAmount.StringFixed(2)),
		slog.String("currency", order.Currency))

	// Decoupled handoff: a notification failure never affects the committed
	// order, and the enqueue must not inherit request cancellation.
	if s.notifier != nil {
		if err := s.notifier.NotifyNewOrder(context.WithoutCancel(ctx), order.ID); err != nil {
			s.logger.Warn("enqueue supplier notification",
				slog.String("order_id", order.ID.String()),
				slog.Any("error", err))
		}
	}
	return order, nil
}

// Get returns a committed order with its lines.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (PurchaseOrder, error) {
	return s.repo.Get(ctx, id)
}

// ListBySource returns the caller's own orders, newest first.
func (s *Service) ListBySource(ctx context.Context, source string, page shared.Page) ([]PurchaseOrder, error) {
	return s.repo.ListBySource(ctx, source, page)
}

// generateNumber builds PO-<PREFIX>-<yyyyMMdd>-<6 uppercase hex chars>.
func generateNumber(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "GEN"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("PO-%s-%s-%s", prefix, now.UTC().Format("20060102"), suffix)
}
