// Package repository contains the PostgreSQL data access layer.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/itlitshop/bookstore-api/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrEmailTaken is returned when registering an email that already exists.
var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned when a user lookup finds nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrGenreExists is returned when creating a genre whose name is taken by an active genre.
	ErrGenreExists = errors.New("genre already exists")
	// ErrGenreNotFound is returned when a genre is absent or soft-deleted.
	ErrGenreNotFound = errors.New("genre not found")
	// ErrBookTitleTaken is returned when creating a book with a duplicate title.
	ErrBookTitleTaken = errors.New("book title already exists")
	// ErrOrderNotFound is returned when an order lookup finds nothing.
	ErrOrderNotFound = errors.New("order not found")
)

// BookNotFoundError reports a requested book that is absent or soft-deleted.
type BookNotFoundError struct {
	BookID string
}

func (e *BookNotFoundError) Error() string {
	return "book not found: " + e.BookID
}

// InsufficientStockError reports a line item whose quantity exceeds the
// book's current stock.
type InsufficientStockError struct {
	Title string
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for " + e.Title
}

// PostgresRepository provides access to the bookstore data in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository and initializes the schema
// through embedded migrations.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry re-runs fn on serialization failures and deadlocks. Concurrent
// order creation can deadlock when two requests decrement the same books in
// different order.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error
	delays := []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second}

	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected {
				if i < len(delays) {
					time.Sleep(delays[i])
					continue
				}
			}
		}

		break
	}
	return err
}

// Close closes the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateUser creates a new user account.
func (r *PostgresRepository) CreateUser(ctx context.Context, username, email string, passwordHash []byte) (*model.User, error) {
	u := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		u.ID, u.Username, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &u, nil
}

// GetUserByEmail returns a user by email.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

// GetUserByID returns a user by id.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// CreateGenre creates a new genre.
func (r *PostgresRepository) CreateGenre(ctx context.Context, name string) (*model.Genre, error) {
	g := model.Genre{
		ID:   uuid.NewString(),
		Name: name,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO genres (id, name) VALUES ($1, $2) RETURNING created_at, updated_at`,
		g.ID, g.Name,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrGenreExists, name)
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	return &g, nil
}

// ListGenres returns all active genres ordered by name.
func (r *PostgresRepository) ListGenres(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at
		 FROM genres
		 WHERE deleted_at IS NULL
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select genres: %w", err)
	}
	defer rows.Close()

	var genres []model.Genre
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return genres, nil
}

// GetGenreByID returns an active genre together with its active books.
func (r *PostgresRepository) GetGenreByID(ctx context.Context, id string) (*model.Genre, error) {
	var g model.Genre
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at
		 FROM genres
		 WHERE id = $1 AND deleted_at IS NULL`,
		id,
	).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, fmt.Errorf("get genre: %w", err)
	}

	books, err := r.listBooks(ctx, `WHERE b.genre_id = $1 AND b.deleted_at IS NULL ORDER BY b.title`, []any{id}, 0, 0)
	if err != nil {
		return nil, err
	}
	g.Books = books

	return &g, nil
}

// GenreExists reports whether an active genre with the given id exists.
func (r *PostgresRepository) GenreExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM genres WHERE id = $1 AND deleted_at IS NULL)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check genre: %w", err)
	}
	return exists, nil
}

// UpdateGenre renames an active genre.
func (r *PostgresRepository) UpdateGenre(ctx context.Context, id, name string) (*model.Genre, error) {
	var g model.Genre
	err := r.pool.QueryRow(ctx,
		`UPDATE genres
		 SET name = $2, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL
		 RETURNING id, name, created_at, updated_at`,
		id, name,
	).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrGenreExists, name)
		}
		return nil, fmt.Errorf("update genre: %w", err)
	}

	return &g, nil
}

// SoftDeleteGenre marks an active genre as deleted.
func (r *PostgresRepository) SoftDeleteGenre(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE genres SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGenreNotFound
	}
	return nil
}

// CreateBookParams carries the fields required to create a book.
type CreateBookParams struct {
	Title           string
	Writer          string
	Publisher       string
	PublicationYear int
	Description     string
	PriceCents      int64
	StockQuantity   int
	GenreID         string
}

// CreateBook creates a new book.
func (r *PostgresRepository) CreateBook(ctx context.Context, p CreateBookParams) (*model.Book, error) {
	b := model.Book{
		ID:              uuid.NewString(),
		Title:           p.Title,
		Writer:          p.Writer,
		Publisher:       p.Publisher,
		PublicationYear: p.PublicationYear,
		Description:     p.Description,
		PriceCents:      p.PriceCents,
		Price:           float64(p.PriceCents) / 100,
		StockQuantity:   p.StockQuantity,
		GenreID:         p.GenreID,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO books (id, title, writer, publisher, publication_year, description, price, stock_quantity, genre_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		b.ID, b.Title, b.Writer, b.Publisher, b.PublicationYear, b.Description, b.PriceCents, b.StockQuantity, b.GenreID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return nil, fmt.Errorf("%w: %s", ErrBookTitleTaken, p.Title)
			case pgerrcode.ForeignKeyViolation:
				return nil, fmt.Errorf("%w: %s", ErrGenreNotFound, p.GenreID)
			}
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	return &b, nil
}

const bookColumns = `b.id, b.title, b.writer, b.publisher, b.publication_year, b.description,
	 b.price, b.stock_quantity, b.genre_id, b.created_at, b.updated_at, b.deleted_at,
	 g.id, g.name, g.created_at, g.updated_at, g.deleted_at`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	var g model.Genre
	err := row.Scan(
		&b.ID, &b.Title, &b.Writer, &b.Publisher, &b.PublicationYear, &b.Description,
		&b.PriceCents, &b.StockQuantity, &b.GenreID, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
		&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt, &g.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Price = float64(b.PriceCents) / 100
	b.Genre = &g
	return &b, nil
}

func (r *PostgresRepository) listBooks(ctx context.Context, clause string, args []any, limit, offset int) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + `
		 FROM books b
		 JOIN genres g ON g.id = b.genre_id ` + clause
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return books, nil
}

// ListBooks returns one page of active books matching the search string,
// together with the total number of active books.
func (r *PostgresRepository) ListBooks(ctx context.Context, page, limit int, search, order string) ([]model.Book, int, error) {
	direction := "ASC"
	if strings.EqualFold(order, "desc") {
		direction = "DESC"
	}

	clause := `WHERE b.deleted_at IS NULL AND b.title ILIKE '%' || $1 || '%' ORDER BY b.title ` + direction
	books, err := r.listBooks(ctx, clause, []any{search}, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE deleted_at IS NULL`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	return books, total, nil
}

// ListBooksByGenre returns one page of active books that belong to a genre.
func (r *PostgresRepository) ListBooksByGenre(ctx context.Context, genreID string, page, limit int) ([]model.Book, error) {
	clause := `WHERE b.deleted_at IS NULL AND b.genre_id = $1 ORDER BY b.title`
	return r.listBooks(ctx, clause, []any{genreID}, limit, (page-1)*limit)
}

// GetBookByID returns an active book with its genre.
func (r *PostgresRepository) GetBookByID(ctx context.Context, id string) (*model.Book, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+`
		 FROM books b
		 JOIN genres g ON g.id = b.genre_id
		 WHERE b.id = $1 AND b.deleted_at IS NULL`,
		id,
	)

	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &BookNotFoundError{BookID: id}
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	return b, nil
}

// UpdateBook applies a partial update to an active book. Nil patch fields
// keep the current value.
func (r *PostgresRepository) UpdateBook(ctx context.Context, id string, patch model.BookPatch) (*model.Book, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET
			title = COALESCE($2, title),
			writer = COALESCE($3, writer),
			publisher = COALESCE($4, publisher),
			publication_year = COALESCE($5, publication_year),
			description = COALESCE($6, description),
			price = COALESCE($7, price),
			stock_quantity = COALESCE($8, stock_quantity),
			genre_id = COALESCE($9, genre_id),
			updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, patch.Title, patch.Writer, patch.Publisher, patch.PublicationYear,
		patch.Description, patch.PriceCents, patch.StockQuantity, patch.GenreID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return nil, fmt.Errorf("%w: %s", ErrBookTitleTaken, id)
			case pgerrcode.ForeignKeyViolation:
				return nil, ErrGenreNotFound
			}
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &BookNotFoundError{BookID: id}
	}

	return r.GetBookByID(ctx, id)
}

// SoftDeleteBook marks an active book as deleted.
func (r *PostgresRepository) SoftDeleteBook(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &BookNotFoundError{BookID: id}
	}
	return nil
}

// CreateOrder creates an order with its line items inside a single
// transaction. Stock is decremented with an atomic conditional update, so a
// concurrent order for the same book can never drive the stock negative, and
// a failed line item rolls back the whole order.
func (r *PostgresRepository) CreateOrder(ctx context.Context, userID string, items []model.LineItem) (string, int64, error) {
	var orderID string
	var totalCents int64

	err := r.withRetry(ctx, func() error {
		orderID = ""
		totalCents = 0

		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		orderID = uuid.NewString()
		_, err = tx.Exec(ctx,
			`INSERT INTO orders (id, user_id) VALUES ($1, $2)`,
			orderID, userID,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range items {
			var title string
			var priceCents int64

			// Conditional decrement: the row lock taken by UPDATE serializes
			// concurrent orders for the same book, and the stock check happens
			// under that lock.
			err := tx.QueryRow(ctx,
				`UPDATE books
				 SET stock_quantity = stock_quantity - $2
				 WHERE id = $1 AND deleted_at IS NULL AND stock_quantity >= $2
				 RETURNING title, price`,
				item.BookID, item.Quantity,
			).Scan(&title, &priceCents)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return r.classifyOrderFailure(ctx, tx, item.BookID)
				}
				return fmt.Errorf("decrement stock: %w", err)
			}

			_, err = tx.Exec(ctx,
				`INSERT INTO order_items (id, order_id, book_id, quantity) VALUES ($1, $2, $3, $4)`,
				uuid.NewString(), orderID, item.BookID, item.Quantity,
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}

			totalCents += priceCents * int64(item.Quantity)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", 0, err
	}

	return orderID, totalCents, nil
}

// classifyOrderFailure tells a missing or soft-deleted book apart from one
// with insufficient stock after a conditional decrement matched no row.
func (r *PostgresRepository) classifyOrderFailure(ctx context.Context, tx pgx.Tx, bookID string) error {
	var title string
	err := tx.QueryRow(ctx,
		`SELECT title FROM books WHERE id = $1 AND deleted_at IS NULL`,
		bookID,
	).Scan(&title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &BookNotFoundError{BookID: bookID}
		}
		return fmt.Errorf("select book: %w", err)
	}
	return &InsufficientStockError{Title: title}
}

func (r *PostgresRepository) queryOrders(ctx context.Context, clause string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.user_id, o.created_at, i.id, i.book_id, i.quantity, `+bookColumns+`
		 FROM orders o
		 JOIN order_items i ON i.order_id = o.id
		 JOIN books b ON b.id = i.book_id
		 JOIN genres g ON g.id = b.genre_id `+clause,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	index := make(map[string]int)

	for rows.Next() {
		var o model.Order
		var item model.OrderItem
		var b model.Book
		var g model.Genre

		err := rows.Scan(
			&o.ID, &o.UserID, &o.CreatedAt, &item.ID, &item.BookID, &item.Quantity,
			&b.ID, &b.Title, &b.Writer, &b.Publisher, &b.PublicationYear, &b.Description,
			&b.PriceCents, &b.StockQuantity, &b.GenreID, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
			&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt, &g.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		b.Price = float64(b.PriceCents) / 100
		b.Genre = &g
		item.OrderID = o.ID
		item.Book = &b

		pos, ok := index[o.ID]
		if !ok {
			pos = len(orders)
			index[o.ID] = pos
			orders = append(orders, o)
		}
		orders[pos].Items = append(orders[pos].Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

// GetOrdersByUser returns the user's orders newest-first, each with its items
// and their books. Soft-deleted books are still included.
func (r *PostgresRepository) GetOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return r.queryOrders(ctx, `WHERE o.user_id = $1 ORDER BY o.created_at DESC, i.id`, userID)
}

// GetOrderByID returns one order with its items and their books.
func (r *PostgresRepository) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	orders, err := r.queryOrders(ctx, `WHERE o.id = $1 ORDER BY i.id`, orderID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return &orders[0], nil
}

// GenreQuantity is the total quantity sold for one genre name.
type GenreQuantity struct {
	Name     string
	Quantity int64
}

// OrderStats holds the raw aggregates behind the statistics endpoint.
type OrderStats struct {
	OrderCount int
	TotalCents int64
	Genres     []GenreQuantity
}

// GetOrderStats aggregates all orders in the system: order count, the sum of
// price*quantity over all line items, and per-genre quantities ordered by
// quantity descending. Rows with equal quantities come back in whatever order
// the grouping yields.
func (r *PostgresRepository) GetOrderStats(ctx context.Context) (*OrderStats, error) {
	var stats OrderStats

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&stats.OrderCount)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(b.price * i.quantity), 0)
		 FROM order_items i
		 JOIN books b ON b.id = i.book_id`,
	).Scan(&stats.TotalCents)
	if err != nil {
		return nil, fmt.Errorf("sum orders: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT COALESCE(g.name, 'Unknown'), SUM(i.quantity)
		 FROM order_items i
		 JOIN books b ON b.id = i.book_id
		 LEFT JOIN genres g ON g.id = b.genre_id
		 GROUP BY 1
		 ORDER BY 2 DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select genre quantities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var gq GenreQuantity
		if err := rows.Scan(&gq.Name, &gq.Quantity); err != nil {
			return nil, fmt.Errorf("scan genre quantity: %w", err)
		}
		stats.Genres = append(stats.Genres, gq)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &stats, nil
}
