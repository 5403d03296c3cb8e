// Package clients resolves opaque API credentials to provisioned client
// applications and their granted capability scopes.
package clients

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Capability scopes granted to client applications.
const (
	ScopeStorageRead = "storage:read"
	ScopeOrdersRead  = "orders:read"
	ScopeOrdersWrite = "orders:write"
	ScopeReportsRead = "reports:read"
)

// Client is a provisioned API consumer. Records are created out of band; this
// service only reads them.
type Client struct {
	ID        uuid.UUID
	Name      string
	KeyHash   string
	Scopes    []string
	IsActive  bool
	CreatedAt time.Time
}

// HasScope reports whether the client was granted the named capability.
func (c *Client) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// SourcePrefix returns the short order-number code for the client. Unknown
// clients fall back to GEN.
func (c *Client) SourcePrefix() string {
	if c == nil {
		return "GEN"
	}
	switch c.Name {
	case "MobilApp":
		return "MOB"
	case "WebPortal":
		return "WEB"
	case "ERPKonnektor":
		return "ERP"
	default:
		return "GEN"
	}
}

// HashKey digests a raw API key. Raw keys are never stored or compared; only
// this hash is persisted and looked up.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

var (
	// ErrUnknownKey indicates no active client matches the credential.
	ErrUnknownKey = errors.New("clients: unknown or inactive api key")
)
