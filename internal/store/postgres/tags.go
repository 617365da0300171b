package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
)

type tagRepo struct{ db *gorm.DB }

func (r *tagRepo) List(ctx context.Context, tagType string) ([]model.Tag, error) {
	q := r.db.WithContext(ctx).Model(&tagRow{}).Order("created_at DESC")
	if tagType != "" {
		q = q.Where("type = ?", tagType)
	}
	var rows []tagRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.Wrap(err, "list tags")
	}
	out := make([]model.Tag, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel())
	}
	return out, nil
}

func (r *tagRepo) Get(ctx context.Context, id string) (*model.Tag, error) {
	if err := checkID(id, "tag"); err != nil {
		return nil, err
	}
	var row tagRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Tag not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get tag")
	}
	return row.toModel(), nil
}

func (r *tagRepo) Create(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	row := tagRow{ID: t.ID, Name: t.Name, Slug: t.Slug, Type: t.Type}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isDup(err) {
			return nil, apperr.Conflictf("Tag slug already exists")
		}
		return nil, apperr.Wrap(err, "create tag")
	}
	return row.toModel(), nil
}
