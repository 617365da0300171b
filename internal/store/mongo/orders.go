package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
)

type orderRepo struct{ db *mongo.Database }

func (r *orderRepo) coll() *mongo.Collection { return r.db.Collection("orders") }

func (r *orderRepo) Create(ctx context.Context, userID string, lines []model.OrderLine) (*model.Order, error) {
	uid, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	var user userDoc
	err = r.db.Collection("users").FindOne(ctx, bson.M{"_id": uid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("User not found with id: %s", userID)
		}
		return nil, apperr.Wrap(err, "get user")
	}

	now := time.Now().UTC()
	doc := orderDoc{
		UserID:    uid,
		Status:    string(model.StatusPending),
		CreatedAt: now,
		UpdatedAt: now,
	}
	total := decimal.Zero
	products := make(map[primitive.ObjectID]*productDoc, len(lines))
	for _, line := range lines {
		pid, err := parseID(line.ProductID, "product")
		if err != nil {
			return nil, err
		}
		var prod productDoc
		err = r.db.Collection("products").FindOne(ctx, bson.M{"_id": pid}).Decode(&prod)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperr.NotFoundf("Product not found with id: %s", line.ProductID)
			}
			return nil, apperr.Wrap(err, "get product")
		}
		price := parseDecimal(prod.Price)
		doc.Items = append(doc.Items, orderItemDoc{
			ID:        primitive.NewObjectID(),
			ProductID: pid,
			Quantity:  line.Quantity,
			Price:     prod.Price,
		})
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		prodCopy := prod
		products[pid] = &prodCopy
	}
	doc.Total = total.String()

	res, err := r.coll().InsertOne(ctx, &doc)
	if err != nil {
		return nil, apperr.Wrap(err, "create order")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(&user, products), nil
}

func (r *orderRepo) Get(ctx context.Context, id string) (*model.Order, error) {
	oid, err := parseID(id, "order")
	if err != nil {
		return nil, err
	}
	var doc orderDoc
	err = r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Order not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get order")
	}

	var user *userDoc
	var u userDoc
	if err := r.db.Collection("users").FindOne(ctx, bson.M{"_id": doc.UserID}).Decode(&u); err == nil {
		user = &u
	}
	products, err := r.loadProducts(ctx, doc.Items)
	if err != nil {
		return nil, err
	}
	return doc.toModel(user, products), nil
}

func (r *orderRepo) loadProducts(ctx context.Context, items []orderItemDoc) (map[primitive.ObjectID]*productDoc, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products := make(map[primitive.ObjectID]*productDoc, len(ids))
	if len(ids) == 0 {
		return products, nil
	}
	cur, err := r.db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(err, "load products")
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(err, "decode products")
	}
	for i := range docs {
		products[docs[i].ID] = &docs[i]
	}
	return products, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string, page model.PageQuery) ([]model.Order, int64, error) {
	uid, err := parseID(userID, "user")
	if err != nil {
		return nil, 0, err
	}
	query := bson.M{"user_id": uid}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var total int64
	if page.Requested() {
		total, err = r.coll().CountDocuments(ctx, query)
		if err != nil {
			return nil, 0, apperr.Wrap(err, "count orders")
		}
		opts = opts.SetSkip(int64(page.Offset())).SetLimit(int64(page.NormLimit()))
	}

	cur, err := r.coll().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, apperr.Wrap(err, "list orders")
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, apperr.Wrap(err, "decode orders")
	}
	out := make([]model.Order, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toModel(nil, nil))
	}
	if !page.Requested() {
		total = int64(len(out))
	}
	return out, total, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error) {
	oid, err := parseID(id, "order")
	if err != nil {
		return nil, err
	}
	var doc orderDoc
	err = r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Order not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get order")
	}
	if err := model.CheckTransition(model.OrderStatus(doc.Status), to); err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC()}}
	err = r.coll().FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		return nil, apperr.Wrap(err, "update order status")
	}
	return doc.toModel(nil, nil), nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) (*model.Order, error) {
	oid, err := parseID(id, "order")
	if err != nil {
		return nil, err
	}
	var doc orderDoc
	err = r.coll().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("Order not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "delete order")
	}
	return doc.toModel(nil, nil), nil
}
