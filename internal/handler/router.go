package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/itlitshop/bookstore-api/internal/middleware"
)

// SetupRouter configures the HTTP routes and middleware of the bookstore API.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)
			r.Get("/me", h.GetMe)
		})
	})

	r.Route("/books", func(r chi.Router) {
		r.Post("/", h.CreateBook)
		r.Get("/", h.GetAllBooks)
		r.Get("/genre/{genre_id}", h.GetBooksByGenre)
		r.Get("/{book_id}", h.GetBookByID)
		r.Patch("/{book_id}", h.UpdateBook)
		r.Delete("/{book_id}", h.DeleteBook)
	})

	r.Route("/genre", func(r chi.Router) {
		r.Post("/", h.CreateGenre)
		r.Get("/", h.GetAllGenres)
		r.Get("/{genre_id}", h.GetGenreDetail)
		r.Patch("/{genre_id}", h.UpdateGenre)
		r.Delete("/{genre_id}", h.DeleteGenre)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Post("/", h.CreateTransaction)
		r.Get("/", h.GetAllTransactions)
		r.Get("/statistics", h.GetTransactionStatistics)
		r.Get("/{transaction_id}", h.GetTransactionDetail)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.respondError(w, http.StatusNotFound, "Not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
