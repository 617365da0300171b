// Package mongo implements the store interfaces over MongoDB with the
// official driver. Keys are ObjectIDs; uniqueness lives in indexes created
// at connect time.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crudlab/dualstore/internal/store"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"posts": {
			{Keys: bson.D{{Key: "author_id", Value: 1}}},
		},
		"products": {
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		"categories": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		},
		"tags": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		},
		"reviews": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}}, Options: unique},
		},
		"orders": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
	}
	for coll, models := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Stores() store.Stores {
	return store.Stores{
		Users:      &userRepo{db: s.db},
		Posts:      &postRepo{db: s.db},
		Products:   &productRepo{db: s.db},
		Orders:     &orderRepo{db: s.db},
		Categories: &categoryRepo{db: s.db},
		Tags:       &tagRepo{db: s.db},
		Reviews:    &reviewRepo{db: s.db},
	}
}
