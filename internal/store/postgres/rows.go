package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crudlab/dualstore/internal/model"
)

// Row types mirror the wire entities with relational concerns attached.
// Primary keys are uuid strings generated in Go, never by the database.

type userRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	Name      string `gorm:"size:50;not null"`
	Age       *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return "users" }

type postRow struct {
	ID         string `gorm:"primaryKey;size:36"`
	Title      string `gorm:"size:200;not null"`
	Content    string
	Published  bool    `gorm:"not null;default:false"`
	AuthorID   string  `gorm:"size:36;not null;index"`
	Author     userRow `gorm:"foreignKey:AuthorID"`
	CategoryID *string `gorm:"size:36;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (postRow) TableName() string { return "posts" }

type productRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:1000"`
	Price       decimal.Decimal `gorm:"type:numeric;not null"`
	Stock       int             `gorm:"not null;default:0"`
	Category    string          `gorm:"size:100;not null;index"`
	ImageURL    string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

type orderRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"size:36;not null;index"`
	User      userRow `gorm:"foreignKey:UserID"`
	Status    string  `gorm:"size:20;not null"`
	Total     decimal.Decimal `gorm:"type:numeric;not null"`
	Items     []orderItemRow  `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (orderRow) TableName() string { return "orders" }

type orderItemRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	OrderID   string `gorm:"size:36;not null;index"`
	ProductID string `gorm:"size:36;not null"`
	Product   productRow `gorm:"foreignKey:ProductID"`
	Quantity  int        `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric;not null"`
}

func (orderItemRow) TableName() string { return "order_items" }

type categoryRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:100;not null"`
	Slug      string `gorm:"size:100;not null;uniqueIndex"`
	ParentID  *string `gorm:"size:36;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (categoryRow) TableName() string { return "categories" }

type tagRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:100;not null"`
	Slug      string `gorm:"size:100;not null;uniqueIndex"`
	Type      string `gorm:"size:50;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (tagRow) TableName() string { return "tags" }

type reviewRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"size:36;not null;uniqueIndex:idx_reviews_user_product"`
	User      userRow `gorm:"foreignKey:UserID"`
	ProductID string  `gorm:"size:36;not null;uniqueIndex:idx_reviews_user_product"`
	Rating    int     `gorm:"not null"`
	Comment   string  `gorm:"size:2000"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (reviewRow) TableName() string { return "reviews" }

// Converters between rows and wire entities.

func (r *userRow) toModel() *model.User {
	return &model.User{
		ID: r.ID, Email: r.Email, Name: r.Name, Age: r.Age,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (r *userRow) toSummary() *model.UserSummary {
	return &model.UserSummary{ID: r.ID, Name: r.Name, Email: r.Email}
}

func (r *postRow) toModel(withAuthor bool) *model.Post {
	p := &model.Post{
		ID: r.ID, Title: r.Title, Content: r.Content, Published: r.Published,
		AuthorID: r.AuthorID, CategoryID: r.CategoryID,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if withAuthor {
		p.Author = r.Author.toSummary()
	}
	return p
}

func (r *productRow) toModel() *model.Product {
	return &model.Product{
		ID: r.ID, Name: r.Name, Description: r.Description,
		Price: r.Price, Stock: r.Stock, Category: r.Category,
		ImageURL: r.ImageURL, Active: r.Active,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (r *productRow) toSummary() *model.ProductSummary {
	return &model.ProductSummary{ID: r.ID, Name: r.Name, ImageURL: r.ImageURL}
}

func (r *orderRow) toModel(populated bool) *model.Order {
	o := &model.Order{
		ID: r.ID, UserID: r.UserID, Status: model.OrderStatus(r.Status),
		Total: r.Total, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if populated {
		o.User = r.User.toSummary()
	}
	o.Items = make([]model.OrderItem, 0, len(r.Items))
	for i := range r.Items {
		it := &r.Items[i]
		item := model.OrderItem{
			ID: it.ID, ProductID: it.ProductID,
			Quantity: it.Quantity, Price: it.Price,
		}
		if populated {
			item.Product = it.Product.toSummary()
		}
		o.Items = append(o.Items, item)
	}
	return o
}

func (r *categoryRow) toModel() *model.Category {
	return &model.Category{
		ID: r.ID, Name: r.Name, Slug: r.Slug, ParentID: r.ParentID,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (r *tagRow) toModel() *model.Tag {
	return &model.Tag{
		ID: r.ID, Name: r.Name, Slug: r.Slug, Type: r.Type,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (r *reviewRow) toModel(withUser bool) *model.Review {
	rv := &model.Review{
		ID: r.ID, UserID: r.UserID, ProductID: r.ProductID,
		Rating: r.Rating, Comment: r.Comment,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if withUser {
		rv.User = r.User.toSummary()
	}
	return rv
}
