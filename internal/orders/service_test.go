package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mutevazi/depo-api/internal/shared"
)

// memoryOrderRepo mimics the transactional repository: rows only become
// visible when the whole callback succeeds.
type memoryOrderRepo struct {
	mu          sync.Mutex
	orders      map[uuid.UUID]PurchaseOrder
	takenNums   map[string]bool
	failNumbers int // fail the first N inserts with ErrDuplicateNumber
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{
		orders:    make(map[uuid.UUID]PurchaseOrder),
		takenNums: make(map[string]bool),
	}
}

type memoryTx struct {
	repo   *memoryOrderRepo
	header *PurchaseOrder
	lines  []Line
}

func (t *memoryTx) InsertOrder(ctx context.Context, o PurchaseOrder) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if t.repo.failNumbers > 0 {
		t.repo.failNumbers--
		return ErrDuplicateNumber
	}
	if t.repo.takenNums[o.OrderNumber] {
		return ErrDuplicateNumber
	}
	t.header = &o
	return nil
}

func (t *memoryTx) InsertLine(ctx context.Context, l Line) error {
	t.lines = append(t.lines, l)
	return nil
}

func (r *memoryOrderRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &memoryTx{repo: r}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.header != nil {
		stored := *tx.header
		stored.Lines = tx.lines
		r.orders[stored.ID] = stored
		r.takenNums[stored.OrderNumber] = true
	}
	return nil
}

func (r *memoryOrderRepo) Get(ctx context.Context, id uuid.UUID) (PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return PurchaseOrder{}, ErrNotFound
	}
	return o, nil
}

func (r *memoryOrderRepo) ListBySource(ctx context.Context, source string, page shared.Page) ([]PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []PurchaseOrder
	for _, o := range r.orders {
		if o.SourceApplication == source {
			out = append(out, o)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	ids []uuid.UUID
	err error
}

func (n *recordingNotifier) NotifyNewOrder(ctx context.Context, id uuid.UUID) error {
	if n.err != nil {
		return n.err
	}
	n.ids = append(n.ids, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validInput() CreateInput {
	return CreateInput{
		SourceApplication: "MobilApp",
		SourcePrefix:      "MOB",
		Lines: []LineInput{{
			MaterialCode: "SUT-001",
			MaterialName: "Çiğ İnek Sütü",
			Quantity:     decimal.RequireFromString("100"),
			Unit:         "litre",
			UnitPrice:    decimal.RequireFromString("28.5"),
		}},
	}
}

var orderNumberPattern = regexp.MustCompile(`^PO-MOB-\d{8}-[A-Z0-9]{6}$`)

func TestCreateComputesTotals(t *testing.T) {
	repo := newMemoryOrderRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, testLogger())

	input := validInput()
	input.Lines = append(input.Lines, LineInput{
		MaterialCode: "MAYA-001",
		MaterialName: "Peynir Mayası",
		Quantity:     decimal.RequireFromString("3"),
		Unit:         "kg",
		UnitPrice:    decimal.RequireFromString("120.75"),
	})

	order, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, order.Lines, 2)
	require.True(t, order.Lines[0].LineTotal.Equal(decimal.RequireFromString("2850.00")),
		"100 x 28.5 = %s", order.Lines[0].LineTotal)
	require.True(t, order.Lines[1].LineTotal.Equal(decimal.RequireFromString("362.25")))
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("3212.25")))
	require.Equal(t, "TRY", order.Currency)
	require.Equal(t, StatusPending, order.Status)
	require.Regexp(t, orderNumberPattern, order.OrderNumber)

	stored, err := repo.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	require.Equal(t, []uuid.UUID{order.ID}, notifier.ids)
}

func TestCreateRejectsEmptyLines(t *testing.T) {
	repo := newMemoryOrderRepo()
	svc := NewService(repo, &recordingNotifier{}, testLogger())

	_, err := svc.Create(context.Background(), CreateInput{SourceApplication: "MobilApp", SourcePrefix: "MOB"})
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, repo.orders, "nothing may persist on validation failure")
}

func TestCreateRejectsWholeBatchOnBadLine(t *testing.T) {
	repo := newMemoryOrderRepo()
	svc := NewService(repo, &recordingNotifier{}, testLogger())

	input := validInput()
	input.Lines = append(input.Lines, LineInput{
		MaterialCode: "TUZ-001",
		MaterialName: "Peynir Tuzu",
		Quantity:     decimal.Zero,
		Unit:         "kg",
	})

	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, repo.orders)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	repo := newMemoryOrderRepo()
	svc := NewService(repo, &recordingNotifier{}, testLogger())

	input := validInput()
	input.Lines[0].UnitPrice = decimal.RequireFromString("-1")

	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateRetriesDuplicateNumber(t *testing.T) {
	repo := newMemoryOrderRepo()
	repo.failNumbers = 2
	svc := NewService(repo, &recordingNotifier{}, testLogger())

	order, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.Len(t, repo.orders, 1)
	require.Regexp(t, orderNumberPattern, order.OrderNumber)
}

func TestCreateGivesUpAfterRetries(t *testing.T) {
	repo := newMemoryOrderRepo()
	repo.failNumbers = numberAttempts
	svc := NewService(repo, &recordingNotifier{}, testLogger())

	_, err := svc.Create(context.Background(), validInput())
	require.ErrorIs(t, err, ErrNumberExhausted)
	require.Empty(t, repo.orders)
}

func TestCreateSurvivesNotifierFailure(t *testing.T) {
	repo := newMemoryOrderRepo()
	svc := NewService(repo, &recordingNotifier{err: errors.New("queue down")}, testLogger())

	order, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err, "a committed order must not fail on notification errors")
	require.Contains(t, repo.orders, order.ID)
}

func TestCreateWithNilNotifier(t *testing.T) {
	repo := newMemoryOrderRepo()
	svc := NewService(repo, nil, testLogger())

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
}

func TestGenerateNumberFallbackPrefix(t *testing.T) {
	n := generateNumber("", time.Now())
	require.Regexp(t, `^PO-GEN-\d{8}-[A-Z0-9]{6}$`, n)
}
