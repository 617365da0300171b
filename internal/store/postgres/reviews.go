package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
)

type reviewRepo struct{ db *gorm.DB }

func (r *reviewRepo) Create(ctx context.Context, rv *model.Review) (*model.Review, error) {
	if err := checkID(rv.UserID, "user"); err != nil {
		return nil, err
	}
	if err := checkID(rv.ProductID, "product"); err != nil {
		return nil, err
	}
	var user userRow
	if err := r.db.WithContext(ctx).First(&user, "id = ?", rv.UserID).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("User not found with id: %s", rv.UserID)
		}
		return nil, apperr.Wrap(err, "get user")
	}
	var prod productRow
	if err := r.db.WithContext(ctx).First(&prod, "id = ?", rv.ProductID).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Product not found with id: %s", rv.ProductID)
		}
		return nil, apperr.Wrap(err, "get product")
	}

	row := reviewRow{
		ID:        rv.ID,
		UserID:    rv.UserID,
		ProductID: rv.ProductID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Omit("User").Create(&row).Error; err != nil {
		if isDup(err) {
			return nil, apperr.Conflictf("Review already exists for this user and product")
		}
		return nil, apperr.Wrap(err, "create review")
	}
	row.User = user
	return row.toModel(true), nil
}

func (r *reviewRepo) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	if err := checkID(productID, "product"); err != nil {
		return nil, err
	}
	var rows []reviewRow
	err := r.db.WithContext(ctx).Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list reviews")
	}
	out := make([]model.Review, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel(true))
	}
	return out, nil
}

func (r *reviewRepo) Delete(ctx context.Context, id string) (*model.Review, error) {
	if err := checkID(id, "review"); err != nil {
		return nil, err
	}
	var row reviewRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Review not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get review")
	}
	if err := r.db.WithContext(ctx).Delete(&reviewRow{}, "id = ?", id).Error; err != nil {
		return nil, apperr.Wrap(err, "delete review")
	}
	return row.toModel(false), nil
}
