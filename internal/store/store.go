// Package store defines the repository capabilities a backend must expose to
// the HTTP layer. Two implementations exist side by side (postgres, mongo);
// handlers depend only on these interfaces.
package store

import (
	"context"

	"github.com/crudlab/dualstore/internal/model"
)

type UserStore interface {
	// List returns users newest first. When page is requested the second
	// return value is the total collection size; otherwise it is the
	// returned count.
	List(ctx context.Context, page model.PageQuery) ([]model.User, int64, error)
	Get(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id string) (*model.User, error)
}

type PostStore interface {
	List(ctx context.Context) ([]model.Post, error)
	ListByCategory(ctx context.Context, categoryID string) ([]model.Post, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	// Create fails with NotFound when the referenced author (or category,
	// when set) does not exist. The returned post carries the author summary.
	Create(ctx context.Context, p *model.Post) (*model.Post, error)
	Update(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error)
	Delete(ctx context.Context, id string) (*model.Post, error)
}

type ProductStore interface {
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id string) (*model.Product, error)
}

type OrderStore interface {
	// Create validates the user and every referenced product, snapshots the
	// current product prices into the line items and stores the computed
	// total. New orders start out pending.
	Create(ctx context.Context, userID string, lines []model.OrderLine) (*model.Order, error)
	// Get returns the order populated with user and product summaries.
	Get(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string, page model.PageQuery) ([]model.Order, int64, error)
	// UpdateStatus applies the transition table; illegal moves fail with a
	// Validation error.
	UpdateStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error)
	Delete(ctx context.Context, id string) (*model.Order, error)
}

type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) (*model.Category, error)
	Delete(ctx context.Context, id string) (*model.Category, error)
}

// CatalogStore is the one transactional code path: category and product are
// created inside a single transaction and either both persist or neither
// does. Only the relational backend provides it.
type CatalogStore interface {
	CreateCategoryWithProduct(ctx context.Context, c *model.Category, p *model.Product) (*model.Category, *model.Product, error)
}

type TagStore interface {
	// List optionally filters by tag type; an empty tagType returns all.
	List(ctx context.Context, tagType string) ([]model.Tag, error)
	Get(ctx context.Context, id string) (*model.Tag, error)
	Create(ctx context.Context, t *model.Tag) (*model.Tag, error)
}

type ReviewStore interface {
	// Create fails with NotFound when user or product is absent and with
	// Conflict when the (user, product) pair already has a review.
	Create(ctx context.Context, r *model.Review) (*model.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]model.Review, error)
	Delete(ctx context.Context, id string) (*model.Review, error)
}

// Stores bundles one backend's repositories. Catalog is nil for backends
// without the transactional catalog path.
type Stores struct {
	Users      UserStore
	Posts      PostStore
	Products   ProductStore
	Orders     OrderStore
	Categories CategoryStore
	Catalog    CatalogStore
	Tags       TagStore
	Reviews    ReviewStore
}
