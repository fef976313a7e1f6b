package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/itlitshop/bookstore-api/internal/repository"
)

type genreRequest struct {
	Name string `json:"name"`
}

// CreateGenre creates a new genre.
func (h *Handler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		h.respondError(w, http.StatusBadRequest, "Genre name is required")
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrGenreExists) {
			h.respondError(w, http.StatusBadRequest, "Genre already exists")
			return
		}
		h.respondInternal(w, "create genre error", err, zap.String("name", req.Name))
		return
	}

	h.respond(w, http.StatusCreated, "Genre created successfully", genre)
}

// GetAllGenres returns all active genres ordered by name.
func (h *Handler) GetAllGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.ListGenres(r.Context())
	if err != nil {
		h.respondInternal(w, "list genres error", err)
		return
	}

	h.respond(w, http.StatusOK, "All genres fetched", genres)
}

// GetGenreDetail returns an active genre together with its books.
func (h *Handler) GetGenreDetail(w http.ResponseWriter, r *http.Request) {
	genreID := chi.URLParam(r, "genre_id")

	genre, err := h.service.GetGenreDetail(r.Context(), genreID)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			h.respondError(w, http.StatusNotFound, "Genre not found")
			return
		}
		h.respondInternal(w, "get genre error", err, zap.String("genreID", genreID))
		return
	}

	h.respond(w, http.StatusOK, "Genre detail", genre)
}

// UpdateGenre renames an active genre.
func (h *Handler) UpdateGenre(w http.ResponseWriter, r *http.Request) {
	genreID := chi.URLParam(r, "genre_id")

	var req genreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		h.respondError(w, http.StatusBadRequest, "Genre name is required")
		return
	}

	genre, err := h.service.UpdateGenre(r.Context(), genreID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGenreNotFound):
			h.respondError(w, http.StatusNotFound, "Genre not found")
		case errors.Is(err, repository.ErrGenreExists):
			h.respondError(w, http.StatusBadRequest, "Genre already exists")
		default:
			h.respondInternal(w, "update genre error", err, zap.String("genreID", genreID))
		}
		return
	}

	h.respond(w, http.StatusOK, "Genre updated successfully", genre)
}

// DeleteGenre soft-deletes an active genre.
func (h *Handler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	genreID := chi.URLParam(r, "genre_id")

	if err := h.service.DeleteGenre(r.Context(), genreID); err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			h.respondError(w, http.StatusNotFound, "Genre not found")
			return
		}
		h.respondInternal(w, "delete genre error", err, zap.String("genreID", genreID))
		return
	}

	h.respond(w, http.StatusOK, "Genre deleted successfully (soft delete)", nil)
}
