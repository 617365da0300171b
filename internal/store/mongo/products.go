package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
)

type productRepo struct{ db *mongo.Database }

func (r *productRepo) coll() *mongo.Collection { return r.db.Collection("products") }

func (r *productRepo) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = filter.MinPrice.InexactFloat64()
		}
		if filter.MaxPrice != nil {
			price["$lte"] = filter.MaxPrice.InexactFloat64()
		}
		query["price_num"] = price
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll().Find(ctx, query, opts)
	if err != nil {
		return nil, apperr.Wrap(err, "list products")
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(err, "decode products")
	}
	out := make([]model.Product, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toModel())
	}
	return out, nil
}

func (r *productRepo) Get(ctx context.Context, id string) (*model.Product, error) {
	oid, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}
	var doc productDoc
	err = r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Product not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get product")
	}
	return doc.toModel(), nil
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	now := time.Now().UTC()
	doc := productDoc{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		PriceFloat:  p.Price.InexactFloat64(),
		Stock:       p.Stock,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.coll().InsertOne(ctx, &doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflictf("Product already exists")
		}
		return nil, apperr.Wrap(err, "create product")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}

func (r *productRepo) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	oid, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = patch.Price.String()
		set["price_num"] = patch.Price.InexactFloat64()
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.ImageURL != nil {
		set["image_url"] = *patch.ImageURL
	}
	if patch.Active != nil {
		set["active"] = *patch.Active
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDoc
	err = r.coll().FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Product not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "update product")
	}
	return doc.toModel(), nil
}

func (r *productRepo) Delete(ctx context.Context, id string) (*model.Product, error) {
	oid, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}
	// Order lines reference the product; mirror the relational constraint
	// instead of orphaning them.
	refs, err := r.db.Collection("orders").CountDocuments(ctx, bson.M{"items.product_id": oid})
	if err != nil {
		return nil, apperr.Wrap(err, "count product orders")
	}
	if refs > 0 {
		return nil, apperr.Conflictf("Product is referenced by existing orders")
	}

	var doc productDoc
	err = r.coll().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Product not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "delete product")
	}
	if _, err := r.db.Collection("reviews").DeleteMany(ctx, bson.M{"product_id": oid}); err != nil {
		return nil, apperr.Wrap(err, "delete product reviews")
	}
	return doc.toModel(), nil
}
