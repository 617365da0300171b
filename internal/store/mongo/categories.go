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

type categoryRepo struct{ db *mongo.Database }

func (r *categoryRepo) coll() *mongo.Collection { return r.db.Collection("categories") }

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Wrap(err, "list categories")
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(err, "decode categories")
	}
	out := make([]model.Category, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toModel())
	}
	return out, nil
}

func (r *categoryRepo) Get(ctx context.Context, id string) (*model.Category, error) {
	oid, err := parseID(id, "category")
	if err != nil {
		return nil, err
	}
	var doc categoryDoc
	err = r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Category not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get category")
	}
	return doc.toModel(), nil
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	now := time.Now().UTC()
	doc := categoryDoc{Name: c.Name, Slug: c.Slug, CreatedAt: now, UpdatedAt: now}
	if c.ParentID != nil {
		pid, err := parseID(*c.ParentID, "category")
		if err != nil {
			return nil, err
		}
		var parent categoryDoc
		err = r.coll().FindOne(ctx, bson.M{"_id": pid}).Decode(&parent)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperr.NotFoundf("Parent category not found with id: %s", *c.ParentID)
			}
			return nil, apperr.Wrap(err, "get parent category")
		}
		doc.ParentID = &pid
	}

	res, err := r.coll().InsertOne(ctx, &doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflictf("Category slug already exists")
		}
		return nil, apperr.Wrap(err, "create category")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) (*model.Category, error) {
	oid, err := parseID(id, "category")
	if err != nil {
		return nil, err
	}
	var doc categoryDoc
	err = r.coll().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Category not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "delete category")
	}
	return doc.toModel(), nil
}
