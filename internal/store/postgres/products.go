package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
)

type productRepo struct{ db *gorm.DB }

func (r *productRepo) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&productRow{}).Order("created_at DESC")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	var rows []productRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.Wrap(err, "list products")
	}
	out := make([]model.Product, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel())
	}
	return out, nil
}

func (r *productRepo) Get(ctx context.Context, id string) (*model.Product, error) {
	if err := checkID(id, "product"); err != nil {
		return nil, err
	}
	var row productRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Product not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get product")
	}
	return row.toModel(), nil
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	row := newProductRow(p)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isDup(err) {
			return nil, apperr.Conflictf("Product already exists")
		}
		return nil, apperr.Wrap(err, "create product")
	}
	return row.toModel(), nil
}

func (r *productRepo) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	if err := checkID(id, "product"); err != nil {
		return nil, err
	}
	var row productRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Product not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get product")
	}

	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Description != nil {
		row.Description = *patch.Description
	}
	if patch.Price != nil {
		row.Price = *patch.Price
	}
	if patch.Stock != nil {
		row.Stock = *patch.Stock
	}
	if patch.Category != nil {
		row.Category = *patch.Category
	}
	if patch.ImageURL != nil {
		row.ImageURL = *patch.ImageURL
	}
	if patch.Active != nil {
		row.Active = *patch.Active
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, apperr.Wrap(err, "update product")
	}
	return row.toModel(), nil
}

func (r *productRepo) Delete(ctx context.Context, id string) (*model.Product, error) {
	if err := checkID(id, "product"); err != nil {
		return nil, err
	}
	var row productRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Product not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get product")
	}

	// Reviews go with the product. Order items keep their snapshot, so a
	// referenced product cannot be deleted.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&reviewRow{}, "product_id = ?", id).Error; err != nil {
			return apperr.Wrap(err, "delete product reviews")
		}
		if err := tx.Delete(&productRow{}, "id = ?", id).Error; err != nil {
			if isFKViolation(err) {
				return apperr.Conflictf("Product is referenced by existing orders")
			}
			return apperr.Wrap(err, "delete product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func newProductRow(p *model.Product) productRow {
	row := productRow{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	return row
}
