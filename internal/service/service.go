// Package service implements the business logic of the bookstore service.
package service

import (
	"context"
	"errors"
	"math"

	"golang.org/x/crypto/bcrypt"

	"github.com/itlitshop/bookstore-api/internal/model"
	"github.com/itlitshop/bookstore-api/internal/repository"
	"github.com/itlitshop/bookstore-api/internal/validation"
)

const bcryptCost = 10

// ErrInvalidPassword is returned when a login attempt carries a wrong password.
var (
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidEmail is returned for a structurally invalid email address.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidQuantity is returned when a requested line item quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidPrice is returned for a negative book price.
	ErrInvalidPrice = errors.New("price must not be negative")
	// ErrInvalidStock is returned for a negative stock quantity.
	ErrInvalidStock = errors.New("stock quantity must not be negative")
	// ErrInvalidYear is returned for an implausible publication year.
	ErrInvalidYear = errors.New("invalid publication year")
)

// Repository describes the data access contract used by the service.
type Repository interface {
	Close() error

	CreateUser(ctx context.Context, username, email string, passwordHash []byte) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	CreateGenre(ctx context.Context, name string) (*model.Genre, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenreByID(ctx context.Context, id string) (*model.Genre, error)
	GenreExists(ctx context.Context, id string) (bool, error)
	UpdateGenre(ctx context.Context, id, name string) (*model.Genre, error)
	SoftDeleteGenre(ctx context.Context, id string) error

	CreateBook(ctx context.Context, p repository.CreateBookParams) (*model.Book, error)
	ListBooks(ctx context.Context, page, limit int, search, order string) ([]model.Book, int, error)
	ListBooksByGenre(ctx context.Context, genreID string, page, limit int) ([]model.Book, error)
	GetBookByID(ctx context.Context, id string) (*model.Book, error)
	UpdateBook(ctx context.Context, id string, patch model.BookPatch) (*model.Book, error)
	SoftDeleteBook(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, userID string, items []model.LineItem) (string, int64, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*model.Order, error)
	GetOrderStats(ctx context.Context) (*repository.OrderStats, error)
}

// Service contains the business logic of the bookstore.
type Service struct {
	repo Repository
}

// NewService creates a service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Close releases the service resources.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// RegisterUser creates a new account with a bcrypt-hashed password.
func (s *Service) RegisterUser(ctx context.Context, username, email, password string) (*model.User, error) {
	if !validation.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateUser(ctx, username, email, hash)
}

// AuthenticateUser verifies an email/password pair and returns the user.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	return u, nil
}

// GetUserByID returns a user profile.
func (s *Service) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// CreateGenre creates a new genre.
func (s *Service) CreateGenre(ctx context.Context, name string) (*model.Genre, error) {
	return s.repo.CreateGenre(ctx, name)
}

// ListGenres returns all active genres ordered by name.
func (s *Service) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.repo.ListGenres(ctx)
}

// GetGenreDetail returns an active genre with its active books.
func (s *Service) GetGenreDetail(ctx context.Context, id string) (*model.Genre, error) {
	return s.repo.GetGenreByID(ctx, id)
}

// UpdateGenre renames an active genre.
func (s *Service) UpdateGenre(ctx context.Context, id, name string) (*model.Genre, error) {
	return s.repo.UpdateGenre(ctx, id, name)
}

// DeleteGenre soft-deletes an active genre.
func (s *Service) DeleteGenre(ctx context.Context, id string) error {
	return s.repo.SoftDeleteGenre(ctx, id)
}

// CreateBookInput carries the fields of a book creation request.
type CreateBookInput struct {
	Title           string
	Writer          string
	Publisher       string
	PublicationYear int
	Description     string
	Price           float64
	StockQuantity   int
	GenreID         string
}

// CreateBook validates the input, checks that the genre is active and
// creates the book.
func (s *Service) CreateBook(ctx context.Context, in CreateBookInput) (*model.Book, error) {
	if in.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if in.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}
	if !validation.IsValidPublicationYear(in.PublicationYear) {
		return nil, ErrInvalidYear
	}

	exists, err := s.repo.GenreExists(ctx, in.GenreID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrGenreNotFound
	}

	return s.repo.CreateBook(ctx, repository.CreateBookParams{
		Title:           in.Title,
		Writer:          in.Writer,
		Publisher:       in.Publisher,
		PublicationYear: in.PublicationYear,
		Description:     in.Description,
		PriceCents:      toCents(in.Price),
		StockQuantity:   in.StockQuantity,
		GenreID:         in.GenreID,
	})
}

// ListBooks returns one page of active books and the total active book count.
func (s *Service) ListBooks(ctx context.Context, page, limit int, search, order string) ([]model.Book, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.ListBooks(ctx, page, limit, search, order)
}

// ListBooksByGenre returns one page of active books belonging to a genre.
func (s *Service) ListBooksByGenre(ctx context.Context, genreID string, page, limit int) ([]model.Book, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.ListBooksByGenre(ctx, genreID, page, limit)
}

// GetBookByID returns an active book.
func (s *Service) GetBookByID(ctx context.Context, id string) (*model.Book, error) {
	return s.repo.GetBookByID(ctx, id)
}

// UpdateBookInput carries the fields of a partial book update.
type UpdateBookInput struct {
	Title           *string
	Writer          *string
	Publisher       *string
	PublicationYear *int
	Description     *string
	Price           *float64
	StockQuantity   *int
	GenreID         *string
}

// UpdateBook validates and applies a partial update to an active book.
func (s *Service) UpdateBook(ctx context.Context, id string, in UpdateBookInput) (*model.Book, error) {
	if in.Price != nil && *in.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if in.StockQuantity != nil && *in.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}
	if in.PublicationYear != nil && !validation.IsValidPublicationYear(*in.PublicationYear) {
		return nil, ErrInvalidYear
	}

	if in.GenreID != nil {
		exists, err := s.repo.GenreExists(ctx, *in.GenreID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, repository.ErrGenreNotFound
		}
	}

	patch := model.BookPatch{
		Title:           in.Title,
		Writer:          in.Writer,
		Publisher:       in.Publisher,
		PublicationYear: in.PublicationYear,
		Description:     in.Description,
		StockQuantity:   in.StockQuantity,
		GenreID:         in.GenreID,
	}
	if in.Price != nil {
		cents := toCents(*in.Price)
		patch.PriceCents = &cents
	}

	return s.repo.UpdateBook(ctx, id, patch)
}

// DeleteBook soft-deletes an active book.
func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.repo.SoftDeleteBook(ctx, id)
}

// CreateOrder creates an order for the user from the requested line items and
// returns the order id and the total amount. The whole request commits or
// fails as one transaction.
func (s *Service) CreateOrder(ctx context.Context, userID string, items []model.LineItem) (string, float64, error) {
	for _, item := range items {
		if item.Quantity <= 0 {
			return "", 0, ErrInvalidQuantity
		}
	}

	orderID, totalCents, err := s.repo.CreateOrder(ctx, userID, items)
	if err != nil {
		return "", 0, err
	}

	return orderID, float64(totalCents) / 100, nil
}

// GetOrdersByUser returns the user's orders newest-first.
func (s *Service) GetOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return s.repo.GetOrdersByUser(ctx, userID)
}

// GetOrderDetail returns one of the user's orders. An order owned by another
// user is reported as not found, so the existence of foreign orders does not
// leak.
func (s *Service) GetOrderDetail(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

// GetStatistics aggregates all orders in the system. With no orders it
// returns zero counts and nil genres. Equal genre quantities keep the order
// the aggregation produced; there is no numeric tie-break.
func (s *Service) GetStatistics(ctx context.Context) (*model.Statistics, error) {
	raw, err := s.repo.GetOrderStats(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Statistics{TotalTransactions: raw.OrderCount}
	if raw.OrderCount == 0 {
		return stats, nil
	}

	stats.AverageAmount = float64(raw.TotalCents) / 100 / float64(raw.OrderCount)

	if len(raw.Genres) > 0 {
		top := raw.Genres[0].Name
		least := raw.Genres[len(raw.Genres)-1].Name
		stats.TopGenre = &top
		stats.LeastGenre = &least
	}

	return stats, nil
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
