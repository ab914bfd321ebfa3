package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/instrument-shop/internal/api/middleware"
	"github.com/example/instrument-shop/internal/auth"
	"github.com/example/instrument-shop/internal/catalog"
	"github.com/example/instrument-shop/internal/command"
	"github.com/example/instrument-shop/internal/domain/product"
	"github.com/example/instrument-shop/internal/query"
	"github.com/example/instrument-shop/internal/session"
	"go.uber.org/zap"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	logger       *zap.Logger
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, logger *zap.Logger) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		logger:       logger.Named("api"),
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	products, err := h.queryHandler.ListProducts(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	p, err := h.queryHandler.GetProduct(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) GetPopularProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, h.queryHandler.PopularProducts(limit))
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queryHandler.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.queryHandler.GetCart(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var cmd command.AddToCart
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	cmd.SessionID = middleware.SessionID(r.Context())

	cart, err := h.cmdHandler.AddToCart(r.Context(), cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *Handlers) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.UpdateQuantity{
		SessionID: middleware.SessionID(r.Context()),
		ProductID: extractPathParam(r.URL.Path, "/cart/items/"),
		Delta:     req.Delta,
	}
	cart, err := h.cmdHandler.UpdateQuantity(r.Context(), cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cmd := command.RemoveFromCart{
		SessionID: middleware.SessionID(r.Context()),
		ProductID: extractPathParam(r.URL.Path, "/cart/items/"),
	}
	cart, err := h.cmdHandler.RemoveFromCart(r.Context(), cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	cmd := command.Checkout{SessionID: middleware.SessionID(r.Context())}
	result, err := h.cmdHandler.Checkout(r.Context(), cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, result)
}

func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper functions

func parseFilter(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()

	sort, err := catalog.ParseSort(q.Get("sort"))
	if err != nil {
		return catalog.Filter{}, err
	}

	filter := catalog.Filter{
		Category: q.Get("category"),
		Sort:     sort,
	}
	for _, b := range q["brand"] {
		for _, name := range strings.Split(b, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filter.Brands = append(filter.Brands, name)
			}
		}
	}
	if filter.MinPrice, err = intParam(q, "min_price"); err != nil {
		return catalog.Filter{}, err
	}
	if filter.MaxPrice, err = intParam(q, "max_price"); err != nil {
		return catalog.Filter{}, err
	}
	if filter.OnSale, err = boolParam(q, "sale"); err != nil {
		return catalog.Filter{}, err
	}
	if filter.TopSellerOnly, err = boolParam(q, "top"); err != nil {
		return catalog.Filter{}, err
	}
	return filter, nil
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", catalog.ErrInvalidFilter, name)
	}
	return n, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", catalog.ErrInvalidFilter, name)
	}
	return b, nil
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, product.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrInvalidFilter),
		errors.Is(err, command.ErrInvalidProduct),
		errors.Is(err, command.ErrInvalidQuantity),
		errors.Is(err, command.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		respondJSONError(w, "internal server error", status)
		return
	}
	respondJSONError(w, err.Error(), status)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
