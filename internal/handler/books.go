package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/itlitshop/bookstore-api/internal/repository"
	"github.com/itlitshop/bookstore-api/internal/service"
)

type createBookRequest struct {
	Title           string   `json:"title"`
	Writer          string   `json:"writer"`
	Publisher       string   `json:"publisher"`
	PublicationYear int      `json:"publication_year"`
	Description     string   `json:"description"`
	Price           *float64 `json:"price"`
	StockQuantity   *int     `json:"stock_quantity"`
	GenreID         string   `json:"genre_id"`
}

// CreateBook creates a new book.
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Writer == "" || req.Publisher == "" || req.PublicationYear == 0 ||
		req.Price == nil || req.StockQuantity == nil || req.GenreID == "" {
		h.respondError(w, http.StatusBadRequest, "All required fields must be provided")
		return
	}

	book, err := h.service.CreateBook(r.Context(), service.CreateBookInput{
		Title:           req.Title,
		Writer:          req.Writer,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		Price:           *req.Price,
		StockQuantity:   *req.StockQuantity,
		GenreID:         req.GenreID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPrice),
			errors.Is(err, service.ErrInvalidStock),
			errors.Is(err, service.ErrInvalidYear):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrGenreNotFound):
			h.respondError(w, http.StatusBadRequest, "Invalid genre_id")
		case errors.Is(err, repository.ErrBookTitleTaken):
			h.respondError(w, http.StatusBadRequest, "Book title already exists")
		default:
			h.respondInternal(w, "create book error", err, zap.String("title", req.Title))
		}
		return
	}

	h.respond(w, http.StatusCreated, "Book created successfully", book)
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetAllBooks returns one page of active books with the total active count.
func (h *Handler) GetAllBooks(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	search := r.URL.Query().Get("search")
	order := r.URL.Query().Get("order")

	books, total, err := h.service.ListBooks(r.Context(), page, limit, search, order)
	if err != nil {
		h.respondInternal(w, "list books error", err)
		return
	}

	h.respond(w, http.StatusOK, "Books fetched successfully", map[string]any{
		"total": total,
		"page":  page,
		"limit": limit,
		"books": books,
	})
}

// GetBookByID returns an active book with its genre.
func (h *Handler) GetBookByID(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "book_id")

	book, err := h.service.GetBookByID(r.Context(), bookID)
	if err != nil {
		var notFound *repository.BookNotFoundError
		if errors.As(err, &notFound) {
			h.respondError(w, http.StatusNotFound, "Book not found")
			return
		}
		h.respondInternal(w, "get book error", err, zap.String("bookID", bookID))
		return
	}

	h.respond(w, http.StatusOK, "Book detail", book)
}

// GetBooksByGenre returns one page of active books of a genre.
func (h *Handler) GetBooksByGenre(w http.ResponseWriter, r *http.Request) {
	genreID := chi.URLParam(r, "genre_id")
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	books, err := h.service.ListBooksByGenre(r.Context(), genreID, page, limit)
	if err != nil {
		h.respondInternal(w, "list books by genre error", err, zap.String("genreID", genreID))
		return
	}

	if len(books) == 0 {
		h.respondError(w, http.StatusNotFound, "No books found for this genre")
		return
	}

	h.respond(w, http.StatusOK, "Books by genre", books)
}

type updateBookRequest struct {
	Title           *string  `json:"title"`
	Writer          *string  `json:"writer"`
	Publisher       *string  `json:"publisher"`
	PublicationYear *int     `json:"publication_year"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price"`
	StockQuantity   *int     `json:"stock_quantity"`
	GenreID         *string  `json:"genre_id"`
}

// UpdateBook applies a partial update to an active book.
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "book_id")

	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.service.UpdateBook(r.Context(), bookID, service.UpdateBookInput{
		Title:           req.Title,
		Writer:          req.Writer,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		Price:           req.Price,
		StockQuantity:   req.StockQuantity,
		GenreID:         req.GenreID,
	})
	if err != nil {
		var notFound *repository.BookNotFoundError
		switch {
		case errors.As(err, &notFound):
			h.respondError(w, http.StatusNotFound, "Book not found")
		case errors.Is(err, service.ErrInvalidPrice),
			errors.Is(err, service.ErrInvalidStock),
			errors.Is(err, service.ErrInvalidYear):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrGenreNotFound):
			h.respondError(w, http.StatusBadRequest, "Invalid genre_id")
		case errors.Is(err, repository.ErrBookTitleTaken):
			h.respondError(w, http.StatusBadRequest, "Book title already exists")
		default:
			h.respondInternal(w, "update book error", err, zap.String("bookID", bookID))
		}
		return
	}

	h.respond(w, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook soft-deletes an active book.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "book_id")

	if err := h.service.DeleteBook(r.Context(), bookID); err != nil {
		var notFound *repository.BookNotFoundError
		if errors.As(err, &notFound) {
			h.respondError(w, http.StatusNotFound, "Book not found")
			return
		}
		h.respondInternal(w, "delete book error", err, zap.String("bookID", bookID))
		return
	}

	h.respond(w, http.StatusOK, "Book deleted (soft delete)", nil)
}
