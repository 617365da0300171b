// Package model holds the backend-agnostic entities served by the API.
// Both stores expose string ids (uuid on postgres, ObjectID hex on mongo) so
// the handler layer never cares which backend produced a record.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Age       *int      `json:"age,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the slice of a user embedded in posts, orders and reviews.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Post struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Content    string       `json:"content,omitempty"`
	Published  bool         `json:"published"`
	AuthorID   string       `json:"authorId"`
	Author     *UserSummary `json:"author,omitempty"`
	CategoryID *string      `json:"categoryId,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductSummary is the slice of a product embedded in order items.
type ProductSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	User      *UserSummary    `json:"user,omitempty"`
	Status    OrderStatus     `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Items     []OrderItem     `json:"items"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// OrderItem snapshots the product price at creation time, so the stored
// total stays equal to the sum of price*quantity even if prices move later.
type OrderItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Product   *ProductSummary `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *string   `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Type      string    `json:"type,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Review struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	User      *UserSummary `json:"user,omitempty"`
	ProductID string       `json:"productId"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Patch types carry partial updates. A nil field means "leave unchanged",
// mirroring the original API's `!== undefined` checks.

type UserPatch struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
	Age   *int    `json:"age"`
}

type PostPatch struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Published  *bool   `json:"published"`
	CategoryID *string `json:"categoryId"`
}

type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"imageUrl"`
	Active      *bool            `json:"active"`
}

// PageQuery is optional pagination for list endpoints. Zero Page means
// "no pagination requested": the whole collection comes back and the
// response omits total.
type PageQuery struct {
	Page  int
	Limit int
}

func (p PageQuery) Requested() bool { return p.Page > 0 }

// Offset returns the number of records to skip, with the same clamping the
// original applied (page >= 1, limit defaulting to 10, capped at 100).
func (p PageQuery) Offset() int {
	return (p.normPage() - 1) * p.NormLimit()
}

func (p PageQuery) normPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

func (p PageQuery) NormLimit() int {
	if p.Limit <= 0 {
		return 10
	}
	if p.Limit > 100 {
		return 100
	}
	return p.Limit
}

// ProductFilter narrows product listings. Nil price bounds mean unbounded.
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// OrderLine is the creation-time input for one order item.
type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
