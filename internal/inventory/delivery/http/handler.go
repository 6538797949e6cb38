package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pawcare/stock-ledger/internal/inventory"
	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/usecase/command"
	"github.com/pawcare/stock-ledger/internal/inventory/usecase/query"
	"github.com/pawcare/stock-ledger/pkg/logger"
)

// StockHandler handles HTTP requests for the stock ledger
type StockHandler struct {
	service *inventory.Service

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewStockHandler creates a new stock handler
func NewStockHandler(service *inventory.Service) *StockHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_service_requests_total",
			Help: "Total number of requests to the stock service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_service_request_duration_seconds",
			Help:    "Duration of stock service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter, requestLatency)

	return &StockHandler{
		service:        service,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ApplyCommand handles POST /api/stock/commands
func (h *StockHandler) ApplyCommand(w http.ResponseWriter, r *http.Request) {
	var req inventory.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	req.Actor = actorFrom(r)
	if req.SessionID == "" {
		req.SessionID = sessionFrom(r)
	}

	result := h.service.ApplyCommand(r.Context(), req)
	if !result.Success {
		respondJSON(w, statusForCommand(result.Cause), Response{Success: false, Error: result.Error, Data: result})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: result.Message, Data: result})
}

// ApplyBatch handles POST /api/stock/commands/batch
func (h *StockHandler) ApplyBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []inventory.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	actor := actorFrom(r)
	session := sessionFrom(r)
	for i := range reqs {
		reqs[i].Actor = actor
	}

	result := h.service.ApplyBatch(r.Context(), session, reqs)
	respondJSON(w, http.StatusOK, Response{Success: result.Failed == 0, Data: result})
}

// Undo handles POST /api/stock/undo
func (h *StockHandler) Undo(w http.ResponseWriter, r *http.Request) {
	result := h.service.Undo(r.Context(), sessionFrom(r))
	if !result.Success {
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: result.Error, Data: result})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: result.Message, Data: result})
}

// Redo handles POST /api/stock/redo
func (h *StockHandler) Redo(w http.ResponseWriter, r *http.Request) {
	result := h.service.Redo(r.Context(), sessionFrom(r))
	if !result.Success {
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: result.Error, Data: result})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: result.Message, Data: result})
}

// History handles GET /api/stock/history
func (h *StockHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries := h.service.History(sessionFrom(r), limit)
	respondJSON(w, http.StatusOK, Response{Success: true, Data: entries})
}

// CreateItem handles POST /api/items
func (h *StockHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string     `json:"name"`
		Description  string     `json:"description"`
		SKU          string     `json:"sku"`
		Category     string     `json:"category"`
		Unit         string     `json:"unit"`
		UnitPrice    float64    `json:"unit_price"`
		Quantity     int        `json:"quantity"`
		MinimumStock int        `json:"minimum_stock"`
		ReorderPoint int        `json:"reorder_point"`
		ExpiryDate   *time.Time `json:"expiry_date"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	item, err := h.service.CreateItem(r.Context(), command.CreateItemCommand{
		Name:         req.Name,
		Description:  req.Description,
		SKU:          req.SKU,
		Category:     req.Category,
		Unit:         req.Unit,
		UnitPrice:    req.UnitPrice,
		Quantity:     req.Quantity,
		MinimumStock: req.MinimumStock,
		ReorderPoint: req.ReorderPoint,
		ExpiryDate:   req.ExpiryDate,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create item")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Item created successfully", Data: item})
}

// GetItem handles GET /api/items/{id}
func (h *StockHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid item ID"})
		return
	}

	item, err := h.service.GetItem(r.Context(), query.GetItemQuery{ID: uint(id)})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Item not found"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: item})
}

// ListItems handles GET /api/items
func (h *StockHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.service.ListItems(r.Context(), query.ListItemsQuery{Limit: limit, Offset: offset})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list items")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list items"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// DeactivateItem handles DELETE /api/items/{id}
func (h *StockHandler) DeactivateItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid item ID"})
		return
	}

	if err := h.service.DeactivateItem(r.Context(), uint(id)); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrItemNotFound) {
			status = http.StatusNotFound
		}
		respondJSON(w, status, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Item deactivated"})
}

// ItemMovements handles GET /api/items/{id}/movements
func (h *StockHandler) ItemMovements(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid item ID"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	movements, err := h.service.ListMovements(r.Context(), query.ListMovementsQuery{
		ItemID: uint(id),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list movements")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list movements"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: movements})
}

// LowStock handles GET /api/stock/low
func (h *StockHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	h.respondItems(w, r, func() ([]domain.Item, error) {
		return h.service.QueryLowStock(r.Context())
	})
}

// OutOfStock handles GET /api/stock/out
func (h *StockHandler) OutOfStock(w http.ResponseWriter, r *http.Request) {
	h.respondItems(w, r, func() ([]domain.Item, error) {
		return h.service.QueryOutOfStock(r.Context())
	})
}

// Expiring handles GET /api/stock/expiring
func (h *StockHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	h.respondItems(w, r, func() ([]domain.Item, error) {
		return h.service.QueryExpiring(r.Context(), days)
	})
}

// Search handles GET /api/stock/search
func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	h.respondItems(w, r, func() ([]domain.Item, error) {
		return h.service.SearchItems(r.Context(), text)
	})
}

// ByCategory handles GET /api/stock/category/{category}
func (h *StockHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	h.respondItems(w, r, func() ([]domain.Item, error) {
		return h.service.ItemsByCategory(r.Context(), category)
	})
}

// Movements handles GET /api/stock/movements
func (h *StockHandler) Movements(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	movements, err := h.service.ListMovements(r.Context(), query.ListMovementsQuery{Limit: limit, Offset: offset})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list movements")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list movements"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: movements})
}

// Stats handles GET /api/stock/stats
func (h *StockHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.QueryStats(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to compute stats")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to compute stats"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: stats})
}

// Transitions handles GET /api/stock/transitions
func (h *StockHandler) Transitions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	respondJSON(w, http.StatusOK, Response{Success: true, Data: h.service.RecentTransitions(limit)})
}

func (h *StockHandler) respondItems(w http.ResponseWriter, r *http.Request, load func() ([]domain.Item, error)) {
	items, err := load()
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Item query failed")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// RegisterRoutes registers all stock ledger routes
func (h *StockHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/stock/commands", h.instrument("apply_command", h.ApplyCommand)).Methods("POST")
	router.HandleFunc("/api/stock/commands/batch", h.instrument("apply_batch", h.ApplyBatch)).Methods("POST")
	router.HandleFunc("/api/stock/undo", h.instrument("undo", h.Undo)).Methods("POST")
	router.HandleFunc("/api/stock/redo", h.instrument("redo", h.Redo)).Methods("POST")
	router.HandleFunc("/api/stock/history", h.instrument("history", h.History)).Methods("GET")

	router.HandleFunc("/api/stock/low", h.instrument("low_stock", h.LowStock)).Methods("GET")
	router.HandleFunc("/api/stock/out", h.instrument("out_of_stock", h.OutOfStock)).Methods("GET")
	router.HandleFunc("/api/stock/expiring", h.instrument("expiring", h.Expiring)).Methods("GET")
	router.HandleFunc("/api/stock/search", h.instrument("search", h.Search)).Methods("GET")
	router.HandleFunc("/api/stock/category/{category}", h.instrument("by_category", h.ByCategory)).Methods("GET")
	router.HandleFunc("/api/stock/movements", h.instrument("movements", h.Movements)).Methods("GET")
	router.HandleFunc("/api/stock/stats", h.instrument("stats", h.Stats)).Methods("GET")
	router.HandleFunc("/api/stock/transitions", h.instrument("transitions", h.Transitions)).Methods("GET")

	router.HandleFunc("/api/items", h.instrument("create_item", h.CreateItem)).Methods("POST")
	router.HandleFunc("/api/items", h.instrument("list_items", h.ListItems)).Methods("GET")
	router.HandleFunc("/api/items/{id}", h.instrument("get_item", h.GetItem)).Methods("GET")
	router.HandleFunc("/api/items/{id}", h.instrument("deactivate_item", h.DeactivateItem)).Methods("DELETE")
	router.HandleFunc("/api/items/{id}/movements", h.instrument("item_movements", h.ItemMovements)).Methods("GET")
}

// RegisterHealthCheck registers the health check endpoint
func (h *StockHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Message: "Stock service is healthy"})
	}).Methods("GET")
}

// instrument records request count and latency per endpoint
func (h *StockHandler) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next(ww, r)

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(ww.status)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// statusForCommand maps a command failure to an HTTP status.
// Domain rejections are client errors; anything else is treated as storage.
func statusForCommand(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrNegativeTarget),
		errors.Is(err, domain.ErrInactiveItem):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
