package clients

import "context"

// RepositoryPort describes the lookups required by Service.
type RepositoryPort interface {
	FindByKeyHash(ctx context.Context, hash string) (*Client, error)
}

// Service is the sole authority for resolving request credentials.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Resolve hashes the raw credential and looks up the matching active client.
// Unknown hashes and inactive records both surface as ErrUnknownKey.
func (s *Service) Resolve(ctx context.Context, rawKey string) (*Client, error) {
	if rawKey == "" {
		return nil, ErrUnknownKey
	}
	return s.repo.FindByKeyHash(ctx, HashKey(rawKey))
}
