// Package model contains the domain entities of the bookstore service.
package model

import "time"

// User represents a registered account. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Genre is a catalog taxonomy entry. A non-nil DeletedAt marks it soft-deleted.
// Books is populated only by the genre detail read.
type Genre struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	Books     []Book     `json:"books,omitempty"`
}

// Book is a catalog entry. The price is stored in cents and exposed as a
// decimal amount in JSON.
type Book struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Writer          string     `json:"writer"`
	Publisher       string     `json:"publisher"`
	PublicationYear int        `json:"publication_year"`
	Description     string     `json:"description"`
	PriceCents      int64      `json:"-"`
	Price           float64    `json:"price"`
	StockQuantity   int        `json:"stock_quantity"`
	GenreID         string     `json:"genre_id"`
	Genre           *Genre     `json:"genre,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// Order is a purchase transaction owned by a user.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// OrderItem is one (book, quantity) line within an order. The referenced book
// is included on reads even if it was soft-deleted afterwards.
type OrderItem struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
	Book     *Book  `json:"book,omitempty"`
}

// BookPatch carries the fields of a partial book update. Nil fields are left
// unchanged.
type BookPatch struct {
	Title           *string
	Writer          *string
	Publisher       *string
	PublicationYear *int
	Description     *string
	PriceCents      *int64
	StockQuantity   *int
	GenreID         *string
}

// LineItem is a requested (book, quantity) pair for order creation.
type LineItem struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

// Statistics aggregates all orders in the system. Genre fields are nil when
// no orders exist.
type Statistics struct {
	TotalTransactions int     `json:"totalTransactions"`
	AverageAmount     float64 `json:"averageAmount"`
	TopGenre          *string `json:"topGenre"`
	LeastGenre        *string `json:"leastGenre"`
}
