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

type postRepo struct{ db *mongo.Database }

func (r *postRepo) coll() *mongo.Collection  { return r.db.Collection("posts") }
func (r *postRepo) users() *mongo.Collection { return r.db.Collection("users") }

func (r *postRepo) List(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx, bson.M{})
}

func (r *postRepo) ListByCategory(ctx context.Context, categoryID string) ([]model.Post, error) {
	oid, err := parseID(categoryID, "category")
	if err != nil {
		return nil, err
	}
	var cat categoryDoc
	err = r.db.Collection("categories").FindOne(ctx, bson.M{"_id": oid}).Decode(&cat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Category not found with id: %s", categoryID)
		}
		return nil, apperr.Wrap(err, "get category")
	}
	return r.list(ctx, bson.M{"category_id": oid})
}

func (r *postRepo) list(ctx context.Context, filter bson.M) ([]model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(err, "list posts")
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(err, "decode posts")
	}

	authors, err := r.loadAuthors(ctx, docs)
	if err != nil {
		return nil, err
	}
	out := make([]model.Post, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toModel(authors[docs[i].AuthorID]))
	}
	return out, nil
}

// loadAuthors fetches the author docs for a post batch in one query.
func (r *postRepo) loadAuthors(ctx context.Context, docs []postDoc) (map[primitive.ObjectID]*userDoc, error) {
	ids := make([]primitive.ObjectID, 0, len(docs))
	seen := make(map[primitive.ObjectID]bool, len(docs))
	for i := range docs {
		if !seen[docs[i].AuthorID] {
			seen[docs[i].AuthorID] = true
			ids = append(ids, docs[i].AuthorID)
		}
	}
	authors := make(map[primitive.ObjectID]*userDoc, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}
	cur, err := r.users().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(err, "load authors")
	}
	var users []userDoc
	if err := cur.All(ctx, &users); err != nil {
		return nil, apperr.Wrap(err, "decode authors")
	}
	for i := range users {
		authors[users[i].ID] = &users[i]
	}
	return authors, nil
}

func (r *postRepo) Get(ctx context.Context, id string) (*model.Post, error) {
	oid, err := parseID(id, "post")
	if err != nil {
		return nil, err
	}
	var doc postDoc
	err = r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Post not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get post")
	}

	var author userDoc
	if err := r.users().FindOne(ctx, bson.M{"_id": doc.AuthorID}).Decode(&author); err != nil {
		return doc.toModel(nil), nil
	}
	return doc.toModel(&author), nil
}

func (r *postRepo) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	authorID, err := parseID(p.AuthorID, "author")
	if err != nil {
		return nil, err
	}
	var author userDoc
	err = r.users().FindOne(ctx, bson.M{"_id": authorID}).Decode(&author)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Author not found with id: %s", p.AuthorID)
		}
		return nil, apperr.Wrap(err, "get author")
	}

	now := time.Now().UTC()
	doc := postDoc{
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.CategoryID != nil {
		catID, err := parseID(*p.CategoryID, "category")
		if err != nil {
			return nil, err
		}
		var cat categoryDoc
		err = r.db.Collection("categories").FindOne(ctx, bson.M{"_id": catID}).Decode(&cat)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperr.NotFoundf("Category not found with id: %s", *p.CategoryID)
			}
			return nil, apperr.Wrap(err, "get category")
		}
		doc.CategoryID = &catID
	}

	res, err := r.coll().InsertOne(ctx, &doc)
	if err != nil {
		return nil, apperr.Wrap(err, "create post")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(&author), nil
}

func (r *postRepo) Update(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	oid, err := parseID(id, "post")
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Published != nil {
		set["published"] = *patch.Published
	}
	if patch.CategoryID != nil {
		catID, err := parseID(*patch.CategoryID, "category")
		if err != nil {
			return nil, err
		}
		var cat categoryDoc
		err = r.db.Collection("categories").FindOne(ctx, bson.M{"_id": catID}).Decode(&cat)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperr.NotFoundf("Category not found with id: %s", *patch.CategoryID)
			}
			return nil, apperr.Wrap(err, "get category")
		}
		set["category_id"] = catID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDoc
	err = r.coll().FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Post not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "update post")
	}

	var author userDoc
	if err := r.users().FindOne(ctx, bson.M{"_id": doc.AuthorID}).Decode(&author); err != nil {
		return doc.toModel(nil), nil
	}
	return doc.toModel(&author), nil
}

func (r *postRepo) Delete(ctx context.Context, id string) (*model.Post, error) {
	oid, err := parseID(id, "post")
	if err != nil {
		return nil, err
	}
	var doc postDoc
	err = r.coll().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Post not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "delete post")
	}
	return doc.toModel(nil), nil
}
