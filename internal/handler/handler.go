// Package handler contains the HTTP handlers of the bookstore API.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/itlitshop/bookstore-api/internal/middleware"
	"github.com/itlitshop/bookstore-api/internal/model"
	"github.com/itlitshop/bookstore-api/internal/service"
	"github.com/itlitshop/bookstore-api/internal/token"
)

// Service defines the business logic contract used by the HTTP handlers.
type Service interface {
	RegisterUser(ctx context.Context, username, email, password string) (*model.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	CreateGenre(ctx context.Context, name string) (*model.Genre, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenreDetail(ctx context.Context, id string) (*model.Genre, error)
	UpdateGenre(ctx context.Context, id, name string) (*model.Genre, error)
	DeleteGenre(ctx context.Context, id string) error

	CreateBook(ctx context.Context, in service.CreateBookInput) (*model.Book, error)
	ListBooks(ctx context.Context, page, limit int, search, order string) ([]model.Book, int, error)
	ListBooksByGenre(ctx context.Context, genreID string, page, limit int) ([]model.Book, error)
	GetBookByID(ctx context.Context, id string) (*model.Book, error)
	UpdateBook(ctx context.Context, id string, in service.UpdateBookInput) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, userID string, items []model.LineItem) (string, float64, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
	GetOrderDetail(ctx context.Context, userID, orderID string) (*model.Order, error)
	GetStatistics(ctx context.Context) (*model.Statistics, error)
}

// Handler implements the HTTP handlers of the bookstore API.
type Handler struct {
	service        Service
	logger         *zap.Logger
	tokens         *token.Manager
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(s Service, logger *zap.Logger, tokens *token.Manager, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		tokens:         tokens,
		authMiddleware: auth,
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (h *Handler) respond(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Message: message, Data: data}); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Message: message}); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

// respondInternal logs the cause server-side and returns an opaque message.
// Raw error detail never reaches the client.
func (h *Handler) respondInternal(w http.ResponseWriter, action string, err error, fields ...zap.Field) {
	h.logger.Error(action, append(fields, zap.Error(err))...)
	h.respondError(w, http.StatusInternalServerError, "Internal server error")
}

// Health reports service liveness with the server timestamp.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, "Server is healthy", map[string]any{
		"date": time.Now(),
	})
}

// Root greets API visitors.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, "Welcome to IT Literature Shop API", nil)
}
