package jobs

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mutevazi/depo-api/internal/orders"
)

const (
	headerSignature = "X-Webhook-Signature"
	headerSource    = "X-Source"
	headerVendor    = "X-Vendor-Token"

	eventNewPurchaseOrder = "new_purchase_order"
	sourceName            = "mutevazipeynircilik.com"
)

// WebhookConfig configures outbound supplier delivery.
type WebhookConfig struct {
	URL         string
	Secret      string
	VendorToken string
	Timeout     time.Duration
}

// WebhookSender posts HMAC-signed order events to the supplier endpoint. The
// signature is computed over the exact bytes sent, so the receiver can verify
// against the raw body.
type WebhookSender struct {
	cfg    WebhookConfig
	client *http.Client
}

// NewWebhookSender builds a sender with a bounded HTTP client.
func NewWebhookSender(cfg WebhookConfig) *WebhookSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &WebhookSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// webhookEvent carries only the order id: the receiver deduplicates on it, so
// resending the same event is safe.
type webhookEvent struct {
	EventType string    `json:"event_type"`
	OrderID   uuid.UUID `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Send delivers one new-order event. Any non-2xx status is an error so the
// queue retries delivery.
func (s *WebhookSender) Send(ctx context.Context, order orders.PurchaseOrder) error {
	body, err := json.Marshal(webhookEvent{
		EventType: eventNewPurchaseOrder,
		OrderID:   order.ID,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerSignature, Sign(s.cfg.Secret, body))
	req.Header.Set(headerSource, sourceName)
	if s.cfg.VendorToken != "" {
		req.Header.Set(headerVendor, s.cfg.VendorToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("supplier webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("supplier webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Sign computes the uppercase hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}
