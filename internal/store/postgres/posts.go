package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
)

type postRepo struct{ db *gorm.DB }

func (r *postRepo) List(ctx context.Context) ([]model.Post, error) {
	var rows []postRow
	err := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list posts")
	}
	return postsToModel(rows), nil
}

func (r *postRepo) ListByCategory(ctx context.Context, categoryID string) ([]model.Post, error) {
	if err := checkID(categoryID, "category"); err != nil {
		return nil, err
	}
	var cat categoryRow
	if err := r.db.WithContext(ctx).First(&cat, "id = ?", categoryID).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Category not found with id: %s", categoryID)
		}
		return nil, apperr.Wrap(err, "get category")
	}

	var rows []postRow
	err := r.db.WithContext(ctx).Preload("Author").
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list posts by category")
	}
	return postsToModel(rows), nil
}

func (r *postRepo) Get(ctx context.Context, id string) (*model.Post, error) {
	if err := checkID(id, "post"); err != nil {
		return nil, err
	}
	var row postRow
	err := r.db.WithContext(ctx).Preload("Author").First(&row, "id = ?", id).Error
	if err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Post not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get post")
	}
	return row.toModel(true), nil
}

func (r *postRepo) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	if err := checkID(p.AuthorID, "author"); err != nil {
		return nil, err
	}
	var author userRow
	if err := r.db.WithContext(ctx).First(&author, "id = ?", p.AuthorID).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Author not found with id: %s", p.AuthorID)
		}
		return nil, apperr.Wrap(err, "get author")
	}
	if p.CategoryID != nil {
		if err := checkID(*p.CategoryID, "category"); err != nil {
			return nil, err
		}
		var cat categoryRow
		if err := r.db.WithContext(ctx).First(&cat, "id = ?", *p.CategoryID).Error; err != nil {
			if notFound(err) {
				return nil, apperr.NotFoundf("Category not found with id: %s", *p.CategoryID)
			}
			return nil, apperr.Wrap(err, "get category")
		}
	}

	row := postRow{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Published:  p.Published,
		AuthorID:   p.AuthorID,
		CategoryID: p.CategoryID,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, apperr.Wrap(err, "create post")
	}
	row.Author = author
	return row.toModel(true), nil
}

func (r *postRepo) Update(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	if err := checkID(id, "post"); err != nil {
		return nil, err
	}
	var row postRow
	if err := r.db.WithContext(ctx).Preload("Author").First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Post not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get post")
	}

	if patch.Title != nil {
		row.Title = *patch.Title
	}
	if patch.Content != nil {
		row.Content = *patch.Content
	}
	if patch.Published != nil {
		row.Published = *patch.Published
	}
	if patch.CategoryID != nil {
		if err := checkID(*patch.CategoryID, "category"); err != nil {
			return nil, err
		}
		var cat categoryRow
		if err := r.db.WithContext(ctx).First(&cat, "id = ?", *patch.CategoryID).Error; err != nil {
			if notFound(err) {
				return nil, apperr.NotFoundf("Category not found with id: %s", *patch.CategoryID)
			}
			return nil, apperr.Wrap(err, "get category")
		}
		row.CategoryID = patch.CategoryID
	}
	if err := r.db.WithContext(ctx).Omit("Author").Save(&row).Error; err != nil {
		return nil, apperr.Wrap(err, "update post")
	}
	return row.toModel(true), nil
}

func (r *postRepo) Delete(ctx context.Context, id string) (*model.Post, error) {
	if err := checkID(id, "post"); err != nil {
		return nil, err
	}
	var row postRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, apperr.NotFoundf("Post not found with id: %s", id)
		}
		return nil, apperr.Wrap(err, "get post")
	}
	if err := r.db.WithContext(ctx).Delete(&postRow{}, "id = ?", id).Error; err != nil {
		return nil, apperr.Wrap(err, "delete post")
	}
	return row.toModel(false), nil
}

func postsToModel(rows []postRow) []model.Post {
	out := make([]model.Post, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel(true))
	}
	return out
}
