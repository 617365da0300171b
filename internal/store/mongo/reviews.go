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

type reviewRepo struct{ db *mongo.Database }

func (r *reviewRepo) coll() *mongo.Collection { return r.db.Collection("reviews") }

func (r *reviewRepo) Create(ctx context.Context, rv *model.Review) (*model.Review, error) {
	uid, err := parseID(rv.UserID, "user")
	if err != nil {
		return nil, err
	}
	pid, err := parseID(rv.ProductID, "product")
	if err != nil {
		return nil, err
	}
	var user userDoc
	err = r.db.Collection("users").FindOne(ctx, bson.M{"_id": uid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("User not found with id: %s", rv.UserID)
		}
		return nil, apperr.Wrap(err, "get user")
	}
	var prod productDoc
	err = r.db.Collection("products").FindOne(ctx, bson.M{"_id": pid}).Decode(&prod)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Product not found with id: %s", rv.ProductID)
		}
		return nil, apperr.Wrap(err, "get product")
	}

	now := time.Now().UTC()
	doc := reviewDoc{
		UserID:    uid,
		ProductID: pid,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := r.coll().InsertOne(ctx, &doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflictf("Review already exists for this user and product")
		}
		return nil, apperr.Wrap(err, "create review")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(&user), nil
}

func (r *reviewRepo) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	pid, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll().Find(ctx, bson.M{"product_id": pid}, opts)
	if err != nil {
		return nil, apperr.Wrap(err, "list reviews")
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(err, "decode reviews")
	}

	// Attach reviewer summaries in one query.
	ids := make([]primitive.ObjectID, 0, len(docs))
	for i := range docs {
		ids = append(ids, docs[i].UserID)
	}
	users := make(map[primitive.ObjectID]*userDoc, len(ids))
	if len(ids) > 0 {
		ucur, err := r.db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, apperr.Wrap(err, "load reviewers")
		}
		var udocs []userDoc
		if err := ucur.All(ctx, &udocs); err != nil {
			return nil, apperr.Wrap(err, "decode reviewers")
		}
		for i := range udocs {
			users[udocs[i].ID] = &udocs[i]
		}
	}

	out := make([]model.Review, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toModel(users[docs[i].UserID]))
	}
	return out, nil
}

func (r *reviewRepo) Delete(ctx context.Context, id string) (*model.Review, error) {
	oid, err := parseID(id, "review")
	if err != nil {
		return nil, err
	}
	var doc reviewDoc
	err = r.coll().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Review not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "delete review")
	}
	return doc.toModel(nil), nil
}
