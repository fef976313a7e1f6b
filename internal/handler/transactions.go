package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/itlitshop/bookstore-api/internal/middleware"
	"github.com/itlitshop/bookstore-api/internal/model"
	"github.com/itlitshop/bookstore-api/internal/repository"
	"github.com/itlitshop/bookstore-api/internal/service"
)

type createTransactionRequest struct {
	Items []model.LineItem `json:"items"`
}

// CreateTransaction creates an order from the requested line items. The
// whole request commits or fails as one; a failing line item leaves no stock
// decrement or order row behind.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Items) == 0 {
		h.respondError(w, http.StatusBadRequest, "Items array is required")
		return
	}

	orderID, total, err := h.service.CreateOrder(r.Context(), identity.ID, req.Items)
	if err != nil {
		var notFound *repository.BookNotFoundError
		var noStock *repository.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			h.respondError(w, http.StatusBadRequest, "Item quantity must be positive")
		case errors.As(err, &notFound):
			h.respondError(w, http.StatusNotFound, fmt.Sprintf("Book not found: %s", notFound.BookID))
		case errors.As(err, &noStock):
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", noStock.Title))
		default:
			h.respondInternal(w, "create transaction error", err, zap.String("userID", identity.ID))
		}
		return
	}

	h.respond(w, http.StatusCreated, "Transaction created successfully", map[string]any{
		"order_id":    orderID,
		"totalAmount": total,
	})
}

// GetAllTransactions returns the authenticated user's orders newest-first.
func (h *Handler) GetAllTransactions(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	orders, err := h.service.GetOrdersByUser(r.Context(), identity.ID)
	if err != nil {
		h.respondInternal(w, "list transactions error", err, zap.String("userID", identity.ID))
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	h.respond(w, http.StatusOK, "All transactions fetched", orders)
}

// GetTransactionDetail returns one of the user's orders. Orders of other
// users are indistinguishable from missing ones.
func (h *Handler) GetTransactionDetail(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	orderID := chi.URLParam(r, "transaction_id")

	order, err := h.service.GetOrderDetail(r.Context(), identity.ID, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			h.respondError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.respondInternal(w, "get transaction error", err, zap.String("orderID", orderID))
		return
	}

	h.respond(w, http.StatusOK, "Transaction detail", order)
}

// GetTransactionStatistics returns aggregate statistics across all orders in
// the system, not just the caller's.
func (h *Handler) GetTransactionStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStatistics(r.Context())
	if err != nil {
		h.respondInternal(w, "transaction statistics error", err)
		return
	}

	message := "Transaction statistics"
	if stats.TotalTransactions == 0 {
		message = "No transactions found"
	}

	h.respond(w, http.StatusOK, message, stats)
}
