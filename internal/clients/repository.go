package clients

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed lookups of api_clients.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByKeyHash returns the active client matching the credential hash.
func (r *Repository) FindByKeyHash(ctx context.Context, hash string) (*Client, error) {
	var (
		c         Client
		rawScopes string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, client_name, api_key_hash, allowed_scopes, is_active, created_at
		 FROM api_clients WHERE api_key_hash = $1 AND is_active`, hash).
		Scan(&c.ID, &c.Name, &c.KeyHash, &rawScopes, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownKey
		}
		return nil, err
	}
	c.Scopes = splitScopes(rawScopes)
	return &c, nil
}

func splitScopes(raw string) []string {
	parts := strings.Split(raw, ",")
	scopes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			scopes = append(scopes, p)
		}
	}
	return scopes
}
