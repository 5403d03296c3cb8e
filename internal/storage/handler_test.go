package storage

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, repo *mockRepo) chi.Router {
	t.Helper()
	svc, _ := newTestService(t, repo)
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/storage", handler.MountRoutes)
	return r
}

func TestListItemsEndpoint(t *testing.T) {
	router := newTestHandler(t, &mockRepo{items: []StockItem{
		{MaterialCode: "SUT-001", MaterialName: "Çiğ İnek Sütü", Quantity: dec("12000")},
		{MaterialCode: "TUZ-001", MaterialName: "Peynir Tuzu", Quantity: dec("3000")},
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/items", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool        `json:"success"`
		Count   int         `json:"count"`
		Data    []StockItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, 2, body.Count)
	require.Len(t, body.Data, 2)
}

func TestGetItemEndpointNotFound(t *testing.T) {
	router := newTestHandler(t, &mockRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/items/NOPE-001", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Detail, "NOPE-001")
}

func TestExpiringEndpointFilter(t *testing.T) {
	soon := time.Now().UTC().Add(24 * time.Hour)
	router := newTestHandler(t, &mockRepo{items: []StockItem{
		{MaterialCode: "SUT-002", ExpiryDate: &soon, Quantity: dec("4500"), Unit: "litre"},
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/expiring?daysAhead=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count          int            `json:"count"`
		FilterDaysUsed int            `json:"filter_days_ahead"`
		Data           []ExpiringItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	require.Equal(t, 3, body.FilterDaysUsed)
}

func TestSummaryEndpoint(t *testing.T) {
	router := newTestHandler(t, &mockRepo{
		items: []StockItem{
			{MaterialCode: "MAYA-003", Category: "Maya", Unit: "kg", WarehouseZone: "A",
				Quantity: dec("15"), UnitVolumeM3: dec("0.0009"), MinimumStockLevel: dec("15")},
		},
		zones: []Zone{{Code: "A", Name: "Cold", TotalCapacityM3: dec("500")}},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Data.TotalItemTypes)
	require.Len(t, body.Data.LowStockAlerts, 1)
}
