package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
)

type categoryRepo struct{ db *gorm.DB }

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var rows []categoryRow
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperr.Wrap(err, "list categories")
	}
	out := make([]model.Category, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel())
	}
	return out, nil
}

func (r *categoryRepo) Get(ctx context.Context, id string) (*model.Category, error) {
	if err := checkID(id, "category"); err != nil {
		return nil, err
	}
	var row categoryRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Category not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get category")
	}
	return row.toModel(), nil
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	row, err := createCategory(r.db.WithContext(ctx), c)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) (*model.Category, error) {
	if err := checkID(id, "category"); err != nil {
		return nil, err
	}
	var row categoryRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Category not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get category")
	}
	if err := r.db.WithContext(ctx).Delete(&categoryRow{}, "id = ?", id).Error; err != nil {
		return nil, apperr.Wrap(err, "delete category")
	}
	return row.toModel(), nil
}

func createCategory(db *gorm.DB, c *model.Category) (*categoryRow, error) {
	if c.ParentID != nil {
		if err := checkID(*c.ParentID, "category"); err != nil {
			return nil, err
		}
		var parent categoryRow
		if err := db.First(&parent, "id = ?", *c.ParentID).Error; err != nil {
			if notFound(err) {
				return nil, apperr.NotFoundf("Parent category not found with id: %s", *c.ParentID)
			}
			return nil, apperr.Wrap(err, "get parent category")
		}
	}
	row := categoryRow{ID: c.ID, Name: c.Name, Slug: c.Slug, ParentID: c.ParentID}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := db.Create(&row).Error; err != nil {
		if isDup(err) {
			return nil, apperr.Conflictf("Category slug already exists")
		}
		return nil, apperr.Wrap(err, "create category")
	}
	return &row, nil
}

// catalogRepo is the one explicitly transactional code path: the category
// and the product referencing it are written inside a single transaction,
// committed together or rolled back together.
type catalogRepo struct{ db *gorm.DB }

func (r *catalogRepo) CreateCategoryWithProduct(ctx context.Context, c *model.Category, p *model.Product) (*model.Category, *model.Product, error) {
	var (
		catRow  *categoryRow
		prodRow productRow
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		catRow, err = createCategory(tx, c)
		if err != nil {
			return err
		}
		prodRow = newProductRow(p)
		prodRow.Category = catRow.Slug
		if err := tx.Create(&prodRow).Error; err != nil {
			if isDup(err) {
				return apperr.Conflictf("Product already exists")
			}
			return apperr.Wrap(err, "create product")
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return catRow.toModel(), prodRow.toModel(), nil
}
