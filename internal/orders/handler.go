package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mutevazi/depo-api/internal/clients"
	"github.com/mutevazi/depo-api/internal/platform/httpx"
	"github.com/mutevazi/depo-api/internal/shared"
)

// Handler serves the purchase order endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	auth     clients.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, auth clients.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
		auth:     auth,
	}
}

// MountRoutes registers order routes. Reads require orders:read, the write
// requires orders:write.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireScope(clients.ScopeOrdersWrite))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireScope(clients.ScopeOrdersRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	client := clients.FromContext(r.Context())
	if client == nil {
		httpx.RespondError(w, r, httpx.ErrUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}

	order, err := h.service.Create(r.Context(), req.toInput(client.Name, client.SourcePrefix()))
	if err != nil {
		h.respondCreateError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/orders/"+order.ID.String())
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": order})
}

func (h *Handler) respondCreateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		httpx.Error(w, r, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, ErrNumberExhausted):
		httpx.Error(w, r, http.StatusConflict, "Conflict", "could not allocate a unique order number")
	default:
		h.logger.Error("create order", slog.Any("error", err))
		httpx.RespondError(w, r, httpx.ErrUnavailable)
	}
}

// get fetches an order by its id. Unlike list, the lookup is not restricted
// to the caller's own orders: any holder of orders:read may read any order it
// knows the uuid of, so back-office readers can resolve numbers handed to
// them by other channels.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, http.StatusNotFound, "Not Found", "order not found")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, r, http.StatusNotFound, "Not Found", "order not found")
			return
		}
		h.logger.Error("get order", slog.Any("error", err))
		httpx.RespondError(w, r, httpx.ErrUnavailable)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": order})
}

// list returns only the caller's own orders: the source filter comes from the
// resolved identity, never from the request.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	client := clients.FromContext(r.Context())
	if client == nil {
		httpx.RespondError(w, r, httpx.ErrUnauthorized)
		return
	}
	pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	page := shared.NewPage(pageNum, pageSize)

	orderList, err := h.service.ListBySource(r.Context(), client.Name, page)
	if err != nil {
		h.logger.Error("list orders", slog.String("source", client.Name), slog.Any("error", err))
		httpx.RespondError(w, r, httpx.ErrUnavailable)
		return
	}
	if orderList == nil {
		orderList = []PurchaseOrder{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"page":      page.Number,
		"page_size": page.Size,
		"count":     len(orderList),
		"data":      orderList,
	})
}
