package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mutevazi/depo-api/internal/shared"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for purchase orders.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the operations available inside a creation transaction.
type TxRepository interface {
	InsertOrder(ctx context.Context, order PurchaseOrder) error
	InsertLine(ctx context.Context, line Line) error
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps the callback in a repeatable-read transaction. Once the
// callback succeeds the commit runs on a context detached from request
// cancellation: a client disconnect may abort the work up to that point, but
// never abandon a commit in flight.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepo{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(context.WithoutCancel(ctx))
}

func (t *txRepo) InsertOrder(ctx context.Context, o PurchaseOrder) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO purchase_orders
		   (id, order_number, source_application, status, supplier_id, notes,
		    requested_delivery_date, total_amount, currency, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		o.ID, o.OrderNumber, o.SourceApplication, o.Status, o.SupplierID, o.Notes,
		o.RequestedDeliveryDate, o.TotalAmount, o.Currency, o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateNumber
		}
		return err
	}
	return nil
}

func (t *txRepo) InsertLine(ctx context.Context, l Line) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO purchase_order_lines
		   (id, order_id, material_code, material_name, quantity, unit, unit_price, line_total)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.OrderID, l.MaterialCode, l.MaterialName, l.Quantity, l.Unit, l.UnitPrice, l.LineTotal)
	return err
}

// Get loads an order header and its lines in two explicit steps, composed into
// one aggregate. Only committed state is visible.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (PurchaseOrder, error) {
	var o PurchaseOrder
	err := r.pool.QueryRow(ctx,
		`SELECT id, order_number, source_application, status, supplier_id, notes,
		        requested_delivery_date, total_amount, currency, created_at
		 FROM purchase_orders WHERE id = $1`, id).
		Scan(&o.ID, &o.OrderNumber, &o.SourceApplication, &o.Status, &o.SupplierID,
			&o.Notes, &o.RequestedDeliveryDate, &o.TotalAmount, &o.Currency, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseOrder{}, ErrNotFound
		}
		return PurchaseOrder{}, err
	}
	lines, err := r.linesFor(ctx, []uuid.UUID{id})
	if err != nil {
		return PurchaseOrder{}, err
	}
	o.Lines = lines[id]
	if o.Lines == nil {
		o.Lines = []Line{}
	}
	return o, nil
}

// ListBySource returns the orders of one source application, newest first.
func (r *Repository) ListBySource(ctx context.Context, source string, page shared.Page) ([]PurchaseOrder, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_number, source_application, status, supplier_id, notes,
		        requested_delivery_date, total_amount, currency, created_at
		 FROM purchase_orders WHERE source_application = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		source, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orderList []PurchaseOrder
	var ids []uuid.UUID
	for rows.Next() {
		var o PurchaseOrder
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.SourceApplication, &o.Status,
			&o.SupplierID, &o.Notes, &o.RequestedDeliveryDate, &o.TotalAmount,
			&o.Currency, &o.CreatedAt); err != nil {
			return nil, err
		}
		orderList = append(orderList, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orderList {
		orderList[i].Lines = lines[orderList[i].ID]
		if orderList[i].Lines == nil {
			orderList[i].Lines = []Line{}
		}
	}
	return orderList, nil
}

func (r *Repository) linesFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]Line, error) {
	out := make(map[uuid.UUID][]Line, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, material_code, material_name, quantity, unit, unit_price, line_total
		 FROM purchase_order_lines WHERE order_id = ANY($1) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.MaterialCode, &l.MaterialName,
			&l.Quantity, &l.Unit, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, err
		}
		out[l.OrderID] = append(out[l.OrderID], l)
	}
	return out, rows.Err()
}
