// Package audit records one immutable entry per inbound request outcome.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is an append-only audit record. There is no update or delete path.
type Entry struct {
	Timestamp  time.Time
	ClientName string
	Method     string
	Path       string
	StatusCode int
	DurationMs int64
	IPAddress  string
}

// Sink consumes completed request entries.
type Sink interface {
	Record(ctx context.Context, e Entry)
}

// Recorder writes entries into audit_logs. Recording is strictly best effort:
// no failure here may turn a successful business operation into a failed
// response.
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool, logger *slog.Logger) *Recorder {
	return &Recorder{pool: pool, logger: logger}
}

// Record appends the entry, swallowing any store failure.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.pool == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (timestamp, client_name, http_method, path, status_code, duration_ms, ip_address)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, NULLIF($7, ''))`,
		e.Timestamp, e.ClientName, e.Method, e.Path, e.StatusCode, e.DurationMs, e.IPAddress)
	if err != nil && r.logger != nil {
		r.logger.Debug("audit record dropped", slog.Any("error", err))
	}
}
