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

type tagRepo struct{ db *mongo.Database }

func (r *tagRepo) coll() *mongo.Collection { return r.db.Collection("tags") }

func (r *tagRepo) List(ctx context.Context, tagType string) ([]model.Tag, error) {
	query := bson.M{}
	if tagType != "" {
		query["type"] = tagType
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll().Find(ctx, query, opts)
	if err != nil {
		return nil, apperr.Wrap(err, "list tags")
	}
	var docs []tagDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(err, "decode tags")
	}
	out := make([]model.Tag, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toModel())
	}
	return out, nil
}

func (r *tagRepo) Get(ctx context.Context, id string) (*model.Tag, error) {
	oid, err := parseID(id, "tag")
	if err != nil {
		return nil, err
	}
	var doc tagDoc
	err = r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Tag not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get tag")
	}
	return doc.toModel(), nil
}

func (r *tagRepo) Create(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	now := time.Now().UTC()
	doc := tagDoc{Name: t.Name, Slug: t.Slug, Type: t.Type, CreatedAt: now, UpdatedAt: now}
	res, err := r.coll().InsertOne(ctx, &doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflictf("Tag slug already exists")
		}
		return nil, apperr.Wrap(err, "create tag")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}
