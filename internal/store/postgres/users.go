package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
)

type userRepo struct{ db *gorm.DB }

func (r *userRepo) List(ctx context.Context, page model.PageQuery) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&userRow{}).Order("created_at DESC")

	var total int64
	if page.Requested() {
		if err := r.db.WithContext(ctx).Model(&userRow{}).Count(&total).Error; err != nil {
			return nil, 0, apperr.Wrap(err, "count users")
		}
		q = q.Limit(page.NormLimit()).Offset(page.Offset())
	}

	var rows []userRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, apperr.Wrap(err, "list users")
	}

	out := make([]model.User, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel())
	}
	if !page.Requested() {
		total = int64(len(out))
	}
	return out, total, nil
}

func (r *userRepo) Get(ctx context.Context, id string) (*model.User, error) {
	if err := checkID(id, "user"); err != nil {
		return nil, err
	}
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("User not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get user")
	}
	return row.toModel(), nil
}

func (r *userRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	row := userRow{ID: u.ID, Email: u.Email, Name: u.Name, Age: u.Age}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isDup(err) {
			return nil, apperr.Conflictf("Email already exists")
		}
		return nil, apperr.Wrap(err, "create user")
	}
	return row.toModel(), nil
}

func (r *userRepo) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	if err := checkID(id, "user"); err != nil {
		return nil, err
	}
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("User not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get user")
	}

	if patch.Email != nil {
		row.Email = *patch.Email
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Age != nil {
		row.Age = patch.Age
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		if isDup(err) {
			return nil, apperr.Conflictf("Email already exists")
		}
		return nil, apperr.Wrap(err, "update user")
	}
	return row.toModel(), nil
}

func (r *userRepo) Delete(ctx context.Context, id string) (*model.User, error) {
	if err := checkID(id, "user"); err != nil {
		return nil, err
	}
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("User not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get user")
	}

	// Deleting a user takes their posts, reviews and orders along, so the
	// row never trips the dependent foreign keys.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&postRow{}, "author_id = ?", id).Error; err != nil {
			return apperr.Wrap(err, "delete user posts")
		}
		if err := tx.Delete(&reviewRow{}, "user_id = ?", id).Error; err != nil {
			return apperr.Wrap(err, "delete user reviews")
		}
		var orderIDs []string
		if err := tx.Model(&orderRow{}).Where("user_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return apperr.Wrap(err, "list user orders")
		}
		if len(orderIDs) > 0 {
			if err := tx.Delete(&orderItemRow{}, "order_id IN ?", orderIDs).Error; err != nil {
				return apperr.Wrap(err, "delete order items")
			}
			if err := tx.Delete(&orderRow{}, "user_id = ?", id).Error; err != nil {
				return apperr.Wrap(err, "delete user orders")
			}
		}
		if err := tx.Delete(&userRow{}, "id = ?", id).Error; err != nil {
			return apperr.Wrap(err, "delete user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}
