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

type userRepo struct{ db *mongo.Database }

func (r *userRepo) coll() *mongo.Collection { return r.db.Collection("users") }

func (r *userRepo) List(ctx context.Context, page model.PageQuery) ([]model.User, int64, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var total int64
	if page.Requested() {
		var err error
		total, err = r.coll().CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, 0, apperr.Wrap(err, "count users")
		}
		opts = opts.SetSkip(int64(page.Offset())).SetLimit(int64(page.NormLimit()))
	}

	cur, err := r.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, apperr.Wrap(err, "list users")
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, apperr.Wrap(err, "decode users")
	}

	out := make([]model.User, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toModel())
	}
	if !page.Requested() {
		total = int64(len(out))
	}
	return out, total, nil
}

func (r *userRepo) Get(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}
	var doc userDoc
	err = r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("User not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get user")
	}
	return doc.toModel(), nil
}

func (r *userRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	now := time.Now().UTC()
	doc := userDoc{Email: u.Email, Name: u.Name, Age: u.Age, CreatedAt: now, UpdatedAt: now}
	res, err := r.coll().InsertOne(ctx, &doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflictf("Email already exists")
		}
		return nil, apperr.Wrap(err, "create user")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}

func (r *userRepo) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	oid, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	err = r.coll().FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("User not found with id: %s", id)
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflictf("Email already exists")
		}
		return nil, apperr.Wrap(err, "update user")
	}
	return doc.toModel(), nil
}

func (r *userRepo) Delete(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}
	var doc userDoc
	err = r.coll().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("User not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "delete user")
	}

	// Posts, reviews and orders go with the user, matching the relational
	// backend's cascade.
	if _, err := r.db.Collection("posts").DeleteMany(ctx, bson.M{"author_id": oid}); err != nil {
		return nil, apperr.Wrap(err, "delete user posts")
	}
	if _, err := r.db.Collection("reviews").DeleteMany(ctx, bson.M{"user_id": oid}); err != nil {
		return nil, apperr.Wrap(err, "delete user reviews")
	}
	if _, err := r.db.Collection("orders").DeleteMany(ctx, bson.M{"user_id": oid}); err != nil {
		return nil, apperr.Wrap(err, "delete user orders")
	}
	return doc.toModel(), nil
}
