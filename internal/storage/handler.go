package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mutevazi/depo-api/internal/platform/httpx"
)

// Handler serves the storage read endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers storage routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/items", h.listItems)
	r.Get("/items/{materialCode}", h.getItem)
	r.Get("/summary", h.summary)
	r.Get("/available-space", h.availableSpace)
	r.Get("/expiring", h.expiring)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		h.logger.Error("list storage items", slog.Any("error", err))
		httpx.RespondError(w, r, httpx.ErrUnavailable)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "materialCode")
	item, err := h.service.GetItem(r.Context(), code)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			httpx.Error(w, r, http.StatusNotFound, "Not Found",
				fmt.Sprintf("no active item with material code %q", code))
			return
		}
		h.logger.Error("get storage item", slog.String("code", code), slog.Any("error", err))
		httpx.RespondError(w, r, httpx.ErrUnavailable)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": item})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("storage summary", slog.Any("error", err))
		httpx.RespondError(w, r, httpx.ErrUnavailable)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": summary})
}

func (h *Handler) availableSpace(w http.ResponseWriter, r *http.Request) {
	space, err := h.service.AvailableSpace(r.Context())
	if err != nil {
		h.logger.Error("available space", slog.Any("error", err))
		httpx.RespondError(w, r, httpx.ErrUnavailable)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": space})
}

func (h *Handler) expiring(w http.ResponseWriter, r *http.Request) {
	daysAhead, _ := strconv.Atoi(r.URL.Query().Get("daysAhead"))
	if daysAhead <= 0 {
		daysAhead = 7
	}
	items, err := h.service.Expiring(r.Context(), daysAhead)
	if err != nil {
		h.logger.Error("expiring items", slog.Any("error", err))
		httpx.RespondError(w, r, httpx.ErrUnavailable)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"count":             len(items),
		"filter_days_ahead": daysAhead,
		"data":              items,
	})
}
