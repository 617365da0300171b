package mongo

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
)

// Document types. Money is stored as a canonical decimal string to avoid
// float drift in BSON.

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	Age       *int               `bson:"age,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type postDoc struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	Title      string              `bson:"title"`
	Content    string              `bson:"content,omitempty"`
	Published  bool                `bson:"published"`
	AuthorID   primitive.ObjectID  `bson:"author_id"`
	CategoryID *primitive.ObjectID `bson:"category_id,omitempty"`
	CreatedAt  time.Time           `bson:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at"`
}

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Price       string             `bson:"price"`
	PriceFloat  float64            `bson:"price_num"` // kept for range queries
	Stock       int                `bson:"stock"`
	Category    string             `bson:"category"`
	ImageURL    string             `bson:"image_url,omitempty"`
	Active      bool               `bson:"active"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type orderItemDoc struct {
	ID        primitive.ObjectID `bson:"id"`
	ProductID primitive.ObjectID `bson:"product_id"`
	Quantity  int                `bson:"quantity"`
	Price     string             `bson:"price"`
}

type orderDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Status    string             `bson:"status"`
	Total     string             `bson:"total"`
	Items     []orderItemDoc     `bson:"items"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type categoryDoc struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Name      string              `bson:"name"`
	Slug      string              `bson:"slug"`
	ParentID  *primitive.ObjectID `bson:"parent_id,omitempty"`
	CreatedAt time.Time           `bson:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at"`
}

type tagDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	Type      string             `bson:"type,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	ProductID primitive.ObjectID `bson:"product_id"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// parseID enforces the document key format before touching the database.
func parseID(id, entity string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.MalformedIDf("Invalid %s ID format", entity)
	}
	return oid, nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID: d.ID.Hex(), Email: d.Email, Name: d.Name, Age: d.Age,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (d *userDoc) toSummary() *model.UserSummary {
	return &model.UserSummary{ID: d.ID.Hex(), Name: d.Name, Email: d.Email}
}

func (d *postDoc) toModel(author *userDoc) *model.Post {
	p := &model.Post{
		ID: d.ID.Hex(), Title: d.Title, Content: d.Content,
		Published: d.Published, AuthorID: d.AuthorID.Hex(),
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
	if d.CategoryID != nil {
		cid := d.CategoryID.Hex()
		p.CategoryID = &cid
	}
	if author != nil {
		p.Author = author.toSummary()
	}
	return p
}

func (d *productDoc) toModel() *model.Product {
	return &model.Product{
		ID: d.ID.Hex(), Name: d.Name, Description: d.Description,
		Price: parseDecimal(d.Price), Stock: d.Stock, Category: d.Category,
		ImageURL: d.ImageURL, Active: d.Active,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (d *productDoc) toSummary() *model.ProductSummary {
	return &model.ProductSummary{ID: d.ID.Hex(), Name: d.Name, ImageURL: d.ImageURL}
}

func (d *orderDoc) toModel(user *userDoc, products map[primitive.ObjectID]*productDoc) *model.Order {
	o := &model.Order{
		ID: d.ID.Hex(), UserID: d.UserID.Hex(),
		Status: model.OrderStatus(d.Status), Total: parseDecimal(d.Total),
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
	if user != nil {
		o.User = user.toSummary()
	}
	o.Items = make([]model.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		item := model.OrderItem{
			ID: it.ID.Hex(), ProductID: it.ProductID.Hex(),
			Quantity: it.Quantity, Price: parseDecimal(it.Price),
		}
		if prod, ok := products[it.ProductID]; ok {
			item.Product = prod.toSummary()
		}
		o.Items = append(o.Items, item)
	}
	return o
}

func (d *categoryDoc) toModel() *model.Category {
	c := &model.Category{
		ID: d.ID.Hex(), Name: d.Name, Slug: d.Slug,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
	if d.ParentID != nil {
		pid := d.ParentID.Hex()
		c.ParentID = &pid
	}
	return c
}

func (d *tagDoc) toModel() *model.Tag {
	return &model.Tag{
		ID: d.ID.Hex(), Name: d.Name, Slug: d.Slug, Type: d.Type,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (d *reviewDoc) toModel(user *userDoc) *model.Review {
	rv := &model.Review{
		ID: d.ID.Hex(), UserID: d.UserID.Hex(), ProductID: d.ProductID.Hex(),
		Rating: d.Rating, Comment: d.Comment,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
	if user != nil {
		rv.User = user.toSummary()
	}
	return rv
}
