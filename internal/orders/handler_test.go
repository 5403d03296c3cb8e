package orders

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mutevazi/depo-api/internal/clients"
)

type clientMapRepo struct {
	byHash map[string]*clients.Client
}

func (m *clientMapRepo) FindByKeyHash(ctx context.Context, hash string) (*clients.Client, error) {
	if c, ok := m.byHash[hash]; ok {
		return c, nil
	}
	return nil, clients.ErrUnknownKey
}

func newTestRouter(t *testing.T, repo *memoryOrderRepo, apps map[string]*clients.Client) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	byHash := make(map[string]*clients.Client, len(apps))
	for key, c := range apps {
		byHash[clients.HashKey(key)] = c
	}
	auth := clients.Middleware{Service: clients.NewService(&clientMapRepo{byHash: byHash}), Logger: logger}
	svc := NewService(repo, &recordingNotifier{}, logger)
	handler := NewHandler(logger, svc, auth)

	r := chi.NewRouter()
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(auth.Authenticate)
		handler.MountRoutes(r)
	})
	return r
}

const createBody = `{"lines":[{"materialCode":"SUT-001","materialName":"Çiğ İnek Sütü","quantity":"100","unit":"litre","unitPrice":"28.5"}]}`

func TestCreateOrderEndpoint(t *testing.T) {
	repo := newMemoryOrderRepo()
	router := newTestRouter(t, repo, map[string]*clients.Client{
		"mobil-key": {Name: "MobilApp", Scopes: []string{clients.ScopeOrdersWrite, clients.ScopeOrdersRead}, IsActive: true},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader(createBody))
	req.Header.Set(clients.APIKeyHeader, "mobil-key")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("Location"))

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			OrderNumber       string `json:"orderNumber"`
			SourceApplication string `json:"sourceApplication"`
			TotalAmount       string `json:"totalAmount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Regexp(t, `^PO-MOB-\d{8}-[A-Z0-9]{6}$`, body.Data.OrderNumber)
	require.Equal(t, "MobilApp", body.Data.SourceApplication)
	require.Equal(t, "2850.00", body.Data.TotalAmount)
	require.Len(t, repo.orders, 1)
}

func TestCreateOrderRequiresWriteScope(t *testing.T) {
	repo := newMemoryOrderRepo()
	router := newTestRouter(t, repo, map[string]*clients.Client{
		"reader-key": {Name: "WebPortal", Scopes: []string{clients.ScopeOrdersRead}, IsActive: true},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader(createBody))
	req.Header.Set(clients.APIKeyHeader, "reader-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, repo.orders)
}

func TestCreateOrderMalformedBody(t *testing.T) {
	router := newTestRouter(t, newMemoryOrderRepo(), map[string]*clients.Client{
		"mobil-key": {Name: "MobilApp", Scopes: []string{clients.ScopeOrdersWrite}, IsActive: true},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader("{not json"))
	req.Header.Set(clients.APIKeyHeader, "mobil-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderEmptyLines(t *testing.T) {
	router := newTestRouter(t, newMemoryOrderRepo(), map[string]*clients.Client{
		"mobil-key": {Name: "MobilApp", Scopes: []string{clients.ScopeOrdersWrite}, IsActive: true},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader(`{"lines":[]}`))
	req.Header.Set(clients.APIKeyHeader, "mobil-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderNotFound(t *testing.T) {
	router := newTestRouter(t, newMemoryOrderRepo(), map[string]*clients.Client{
		"mobil-key": {Name: "MobilApp", Scopes: []string{clients.ScopeOrdersRead}, IsActive: true},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	req.Header.Set(clients.APIKeyHeader, "mobil-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderReadableAcrossClients(t *testing.T) {
	repo := newMemoryOrderRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, &recordingNotifier{}, logger)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	// The order belongs to MobilApp; a reader from another channel may still
	// fetch it by id.
	router := newTestRouter(t, repo, map[string]*clients.Client{
		"portal-key": {Name: "WebPortal", Scopes: []string{clients.ScopeOrdersRead}, IsActive: true},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+created.ID.String(), nil)
	req.Header.Set(clients.APIKeyHeader, "portal-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestListOrdersScopedToCaller(t *testing.T) {
	repo := newMemoryOrderRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, &recordingNotifier{}, logger)

	mobil := validInput()
	_, err := svc.Create(context.Background(), mobil)
	require.NoError(t, err)
	portal := validInput()
	portal.SourceApplication = "WebPortal"
	portal.SourcePrefix = "WEB"
	_, err = svc.Create(context.Background(), portal)
	require.NoError(t, err)

	router := newTestRouter(t, repo, map[string]*clients.Client{
		"mobil-key": {Name: "MobilApp", Scopes: []string{clients.ScopeOrdersRead}, IsActive: true},
	})

	// pageSize above the cap clamps to 100, page 0 clamps to 1.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/?page=0&pageSize=500", nil)
	req.Header.Set(clients.APIKeyHeader, "mobil-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success  bool            `json:"success"`
		Page     int             `json:"page"`
		PageSize int             `json:"page_size"`
		Count    int             `json:"count"`
		Data     []PurchaseOrder `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Page)
	require.Equal(t, 100, body.PageSize)
	require.Equal(t, 1, body.Count)
	require.Equal(t, "MobilApp", body.Data[0].SourceApplication)
}
