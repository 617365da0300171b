package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
)

type orderRepo struct{ db *gorm.DB }

func (r *orderRepo) Create(ctx context.Context, userID string, lines []model.OrderLine) (*model.Order, error) {
	if err := checkID(userID, "user"); err != nil {
		return nil, err
	}
	var user userRow
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("User not found with id: %s", userID)
		}
		return nil, apperr.Wrap(err, "get user")
	}

	row := orderRow{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: string(model.StatusPending),
		Total:  decimal.Zero,
	}
	for _, line := range lines {
		if err := checkID(line.ProductID, "product"); err != nil {
			return nil, err
		}
		var prod productRow
		if err := r.db.WithContext(ctx).First(&prod, "id = ?", line.ProductID).Error; err != nil {
			if notFound(err) {
				return nil, apperr.NotFoundf("Product not found with id: %s", line.ProductID)
			}
			return nil, apperr.Wrap(err, "get product")
		}
		// Snapshot the current price; total = sum of price*quantity.
		row.Items = append(row.Items, orderItemRow{
			ID:        uuid.NewString(),
			OrderID:   row.ID,
			ProductID: prod.ID,
			Product:   prod,
			Quantity:  line.Quantity,
			Price:     prod.Price,
		})
		row.Total = row.Total.Add(prod.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	if err := r.db.WithContext(ctx).Omit("Items.Product", "User").Create(&row).Error; err != nil {
		return nil, apperr.Wrap(err, "create order")
	}
	row.User = user
	return row.toModel(true), nil
}

func (r *orderRepo) Get(ctx context.Context, id string) (*model.Order, error) {
	if err := checkID(id, "order"); err != nil {
		return nil, err
	}
	var row orderRow
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		First(&row, "id = ?", id).Error
	if err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Order not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get order")
	}
	return row.toModel(true), nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string, page model.PageQuery) ([]model.Order, int64, error) {
	if err := checkID(userID, "user"); err != nil {
		return nil, 0, err
	}
	q := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC")

	var total int64
	if page.Requested() {
		if err := r.db.WithContext(ctx).Model(&orderRow{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
			return nil, 0, apperr.Wrap(err, "count orders")
		}
		q = q.Limit(page.NormLimit()).Offset(page.Offset())
	}

	var rows []orderRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, apperr.Wrap(err, "list orders")
	}
	out := make([]model.Order, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel(false))
	}
	if !page.Requested() {
		total = int64(len(out))
	}
	return out, total, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error) {
	if err := checkID(id, "order"); err != nil {
		return nil, err
	}
	var row orderRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Order not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get order")
	}
	if err := model.CheckTransition(model.OrderStatus(row.Status), to); err != nil {
		return nil, err
	}
	row.Status = string(to)
	if err := r.db.WithContext(ctx).Omit("Items", "User").Save(&row).Error; err != nil {
		return nil, apperr.Wrap(err, "update order status")
	}
	return row.toModel(false), nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) (*model.Order, error) {
	if err := checkID(id, "order"); err != nil {
		return nil, err
	}
	var row orderRow
	err := r.db.WithContext(ctx).Preload("Items").First(&row, "id = ?", id).Error
	if err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Order not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get order")
	}
	if err := r.db.WithContext(ctx).Delete(&orderItemRow{}, "order_id = ?", id).Error; err != nil {
		return nil, apperr.Wrap(err, "delete order items")
	}
	if err := r.db.WithContext(ctx).Delete(&orderRow{}, "id = ?", id).Error; err != nil {
		return nil, apperr.Wrap(err, "delete order")
	}
	return row.toModel(false), nil
}
