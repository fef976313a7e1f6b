package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/itlitshop/bookstore-api/internal/model"
	"github.com/itlitshop/bookstore-api/internal/repository"
)

type stubRepo struct {
	createdUser   *model.User
	createUserErr error

	userByEmail    *model.User
	userByEmailErr error

	genreExists    bool
	genreExistsErr error

	createdBook   *model.Book
	createBookErr error

	orderID        string
	orderTotal     int64
	createOrderErr error
	orderItems     []model.LineItem

	orderByID    *model.Order
	orderByIDErr error

	stats    *repository.OrderStats
	statsErr error
}

func (s *stubRepo) Close() error { return nil }

func (s *stubRepo) CreateUser(ctx context.Context, username, email string, passwordHash []byte) (*model.User, error) {
	return s.createdUser, s.createUserErr
}

func (s *stubRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userByEmail, s.userByEmailErr
}

func (s *stubRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}

func (s *stubRepo) CreateGenre(ctx context.Context, name string) (*model.Genre, error) {
	return nil, nil
}

func (s *stubRepo) ListGenres(ctx context.Context) ([]model.Genre, error) { return nil, nil }

func (s *stubRepo) GetGenreByID(ctx context.Context, id string) (*model.Genre, error) {
	return nil, repository.ErrGenreNotFound
}

func (s *stubRepo) GenreExists(ctx context.Context, id string) (bool, error) {
	return s.genreExists, s.genreExistsErr
}

func (s *stubRepo) UpdateGenre(ctx context.Context, id, name string) (*model.Genre, error) {
	return nil, nil
}

func (s *stubRepo) SoftDeleteGenre(ctx context.Context, id string) error { return nil }

func (s *stubRepo) CreateBook(ctx context.Context, p repository.CreateBookParams) (*model.Book, error) {
	return s.createdBook, s.createBookErr
}

func (s *stubRepo) ListBooks(ctx context.Context, page, limit int, search, order string) ([]model.Book, int, error) {
	return nil, 0, nil
}

func (s *stubRepo) ListBooksByGenre(ctx context.Context, genreID string, page, limit int) ([]model.Book, error) {
	return nil, nil
}

func (s *stubRepo) GetBookByID(ctx context.Context, id string) (*model.Book, error) {
	return nil, &repository.BookNotFoundError{BookID: id}
}

func (s *stubRepo) UpdateBook(ctx context.Context, id string, patch model.BookPatch) (*model.Book, error) {
	return nil, nil
}

func (s *stubRepo) SoftDeleteBook(ctx context.Context, id string) error { return nil }

func (s *stubRepo) CreateOrder(ctx context.Context, userID string, items []model.LineItem) (string, int64, error) {
	s.orderItems = items
	return s.orderID, s.orderTotal, s.createOrderErr
}

func (s *stubRepo) GetOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return nil, nil
}

func (s *stubRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	return s.orderByID, s.orderByIDErr
}

func (s *stubRepo) GetOrderStats(ctx context.Context) (*repository.OrderStats, error) {
	return s.stats, s.statsErr
}

func TestRegisterUser_HashesPassword(t *testing.T) {
	repo := &stubRepo{createdUser: &model.User{ID: "u1", Email: "user@example.com"}}
	svc := NewService(repo)

	_, err := svc.RegisterUser(context.Background(), "user", "user@example.com", "secret")
	if err != nil {
		t.Fatalf("RegisterUser error: %v", err)
	}
}

func TestRegisterUser_InvalidEmail(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.RegisterUser(context.Background(), "user", "not-an-email", "secret")
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestRegisterUser_PropagatesDuplicateError(t *testing.T) {
	repo := &stubRepo{createUserErr: repository.ErrEmailTaken}
	svc := NewService(repo)

	_, err := svc.RegisterUser(context.Background(), "user", "user@example.com", "secret")
	if !errors.Is(err, repository.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticateUser_InvalidPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{
		userByEmail: &model.User{ID: "u1", Email: "user@example.com", PasswordHash: hash},
	}
	svc := NewService(repo)

	_, err = svc.AuthenticateUser(context.Background(), "user@example.com", "wrong")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestAuthenticateUser_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{
		userByEmail: &model.User{ID: "u1", Email: "user@example.com", PasswordHash: hash},
	}
	svc := NewService(repo)

	u, err := svc.AuthenticateUser(context.Background(), "user@example.com", "correct")
	if err != nil {
		t.Fatalf("AuthenticateUser error: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("user ID = %q, want %q", u.ID, "u1")
	}
}

func TestCreateBook_RejectsInvalidInput(t *testing.T) {
	svc := NewService(&stubRepo{genreExists: true})

	tests := []struct {
		name string
		in   CreateBookInput
		want error
	}{
		{
			name: "negative price",
			in:   CreateBookInput{Price: -1, PublicationYear: 2024},
			want: ErrInvalidPrice,
		},
		{
			name: "negative stock",
			in:   CreateBookInput{StockQuantity: -1, PublicationYear: 2024},
			want: ErrInvalidStock,
		},
		{
			name: "bad year",
			in:   CreateBookInput{PublicationYear: 12},
			want: ErrInvalidYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBook(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("CreateBook error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateBook_UnknownGenre(t *testing.T) {
	svc := NewService(&stubRepo{genreExists: false})

	_, err := svc.CreateBook(context.Background(), CreateBookInput{
		Title:           "Go",
		PublicationYear: 2024,
		GenreID:         "missing",
	})
	if !errors.Is(err, repository.ErrGenreNotFound) {
		t.Fatalf("expected ErrGenreNotFound, got %v", err)
	}
}

func TestCreateOrder_RejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(&stubRepo{})

	for _, q := range []int{0, -3} {
		_, _, err := svc.CreateOrder(context.Background(), "u1", []model.LineItem{
			{BookID: "b1", Quantity: q},
		})
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", q, err)
		}
	}
}

func TestCreateOrder_ConvertsTotalToAmount(t *testing.T) {
	repo := &stubRepo{orderID: "o1", orderTotal: 12550}
	svc := NewService(repo)

	orderID, total, err := svc.CreateOrder(context.Background(), "u1", []model.LineItem{
		{BookID: "b1", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if orderID != "o1" {
		t.Fatalf("orderID = %q, want %q", orderID, "o1")
	}
	if total != 125.5 {
		t.Fatalf("total = %v, want 125.5", total)
	}
	if len(repo.orderItems) != 1 {
		t.Fatalf("items passed to repository: %+v", repo.orderItems)
	}
}

func TestGetOrderDetail_ForeignOrderIsNotFound(t *testing.T) {
	repo := &stubRepo{
		orderByID: &model.Order{ID: "o1", UserID: "someone-else"},
	}
	svc := NewService(repo)

	_, err := svc.GetOrderDetail(context.Background(), "u1", "o1")
	if !errors.Is(err, repository.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestGetOrderDetail_OwnOrder(t *testing.T) {
	repo := &stubRepo{
		orderByID: &model.Order{ID: "o1", UserID: "u1"},
	}
	svc := NewService(repo)

	order, err := svc.GetOrderDetail(context.Background(), "u1", "o1")
	if err != nil {
		t.Fatalf("GetOrderDetail error: %v", err)
	}
	if order.ID != "o1" {
		t.Fatalf("order ID = %q, want %q", order.ID, "o1")
	}
}

func TestGetStatistics_NoOrders(t *testing.T) {
	repo := &stubRepo{stats: &repository.OrderStats{}}
	svc := NewService(repo)

	stats, err := svc.GetStatistics(context.Background())
	if err != nil {
		t.Fatalf("GetStatistics error: %v", err)
	}
	if stats.TotalTransactions != 0 {
		t.Fatalf("TotalTransactions = %d, want 0", stats.TotalTransactions)
	}
	if stats.AverageAmount != 0 {
		t.Fatalf("AverageAmount = %v, want 0", stats.AverageAmount)
	}
	if stats.TopGenre != nil || stats.LeastGenre != nil {
		t.Fatalf("genres = %v/%v, want nil/nil", stats.TopGenre, stats.LeastGenre)
	}
}

func TestGetStatistics_Aggregates(t *testing.T) {
	repo := &stubRepo{stats: &repository.OrderStats{
		OrderCount: 4,
		TotalCents: 100000,
		Genres: []repository.GenreQuantity{
			{Name: "Programming", Quantity: 10},
			{Name: "Databases", Quantity: 4},
			{Name: "Unknown", Quantity: 1},
		},
	}}
	svc := NewService(repo)

	stats, err := svc.GetStatistics(context.Background())
	if err != nil {
		t.Fatalf("GetStatistics error: %v", err)
	}
	if stats.TotalTransactions != 4 {
		t.Fatalf("TotalTransactions = %d, want 4", stats.TotalTransactions)
	}
	if stats.AverageAmount != 250 {
		t.Fatalf("AverageAmount = %v, want 250", stats.AverageAmount)
	}
	if stats.TopGenre == nil || *stats.TopGenre != "Programming" {
		t.Fatalf("TopGenre = %v, want Programming", stats.TopGenre)
	}
	if stats.LeastGenre == nil || *stats.LeastGenre != "Unknown" {
		t.Fatalf("LeastGenre = %v, want Unknown", stats.LeastGenre)
	}
}

// stockRepo is an in-memory repository whose CreateOrder honours the same
// contract as the PostgreSQL implementation: the stock check and decrement
// happen atomically, and a failing item leaves no changes behind.
type stockRepo struct {
	stubRepo
	mu    sync.Mutex
	stock map[string]int
}

func (s *stockRepo) CreateOrder(ctx context.Context, userID string, items []model.LineItem) (string, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if s.stock[item.BookID] < item.Quantity {
			return "", 0, &repository.InsufficientStockError{Title: item.BookID}
		}
	}
	for _, item := range items {
		s.stock[item.BookID] -= item.Quantity
	}
	return "order", 0, nil
}

func TestCreateOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	const stock = 5

	repo := &stockRepo{stock: map[string]int{"b1": stock}}
	svc := NewService(repo)

	const workers = 8
	results := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.CreateOrder(context.Background(), "u1", []model.LineItem{
				{BookID: "b1", Quantity: stock},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, outOfStock int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			var noStock *repository.InsufficientStockError
			if !errors.As(err, &noStock) {
				t.Fatalf("unexpected error: %v", err)
			}
			outOfStock++
		}
	}

	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want exactly 1", succeeded)
	}
	if outOfStock != workers-1 {
		t.Fatalf("insufficient stock failures = %d, want %d", outOfStock, workers-1)
	}
	if repo.stock["b1"] != 0 {
		t.Fatalf("remaining stock = %d, want 0", repo.stock["b1"])
	}
}
