package httpapi

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crudlab/dualstore/internal/apperr"
	"github.com/crudlab/dualstore/internal/model"
	"github.com/crudlab/dualstore/internal/store"
)

// memStore is an in-memory implementation of every store interface, enough
// for handler tests to exercise the envelope and error mapping without a
// database.
type memStore struct {
	seq      int
	users    map[string]*model.User
	posts    map[string]*model.Post
	products map[string]*model.Product
	orders   map[string]*model.Order
	cats     map[string]*model.Category
	tags     map[string]*model.Tag
	reviews  map[string]*model.Review

	failCatalog bool // force the catalog transaction to roll back
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*model.User),
		posts:    make(map[string]*model.Post),
		products: make(map[string]*model.Product),
		orders:   make(map[string]*model.Order),
		cats:     make(map[string]*model.Category),
		tags:     make(map[string]*model.Tag),
		reviews:  make(map[string]*model.Review),
	}
}

func (m *memStore) stores() store.Stores {
	return store.Stores{
		Users:      (*memUsers)(m),
		Posts:      (*memPosts)(m),
		Products:   (*memProducts)(m),
		Orders:     (*memOrders)(m),
		Categories: (*memCategories)(m),
		Catalog:    (*memCatalog)(m),
		Tags:       (*memTags)(m),
		Reviews:    (*memReviews)(m),
	}
}

// storesNoCatalog mimics the document backend, which has no transactional
// catalog path.
func (m *memStore) storesNoCatalog() store.Stores {
	s := m.stores()
	s.Catalog = nil
	return s
}

func (m *memStore) nextID() string {
	m.seq++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", m.seq)
}

type memUsers memStore

func (m *memUsers) List(_ context.Context, page model.PageQuery) ([]model.User, int64, error) {
	all := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if !page.Requested() {
		return all, int64(len(all)), nil
	}
	total := int64(len(all))
	start := page.Offset()
	if start > len(all) {
		return []model.User{}, total, nil
	}
	end := start + page.NormLimit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memUsers) Get(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFoundf("User not found with id: %s", id)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, apperr.Conflictf("Email already exists")
		}
	}
	u.ID = (*memStore)(m).nextID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) Update(_ context.Context, id string, patch model.UserPatch) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFoundf("User not found with id: %s", id)
	}
	if patch.Email != nil {
		for _, other := range m.users {
			if other.ID != id && other.Email == *patch.Email {
				return nil, apperr.Conflictf("Email already exists")
			}
		}
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Age != nil {
		u.Age = patch.Age
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *memUsers) Delete(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFoundf("User not found with id: %s", id)
	}
	delete(m.users, id)
	for pid, p := range m.posts {
		if p.AuthorID == id {
			delete(m.posts, pid)
		}
	}
	for rid, rv := range m.reviews {
		if rv.UserID == id {
			delete(m.reviews, rid)
		}
	}
	for oid, o := range m.orders {
		if o.UserID == id {
			delete(m.orders, oid)
		}
	}
	return u, nil
}

type memPosts memStore

func (m *memPosts) List(_ context.Context) ([]model.Post, error) {
	out := make([]model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memPosts) ListByCategory(_ context.Context, categoryID string) ([]model.Post, error) {
	if _, ok := m.cats[categoryID]; !ok {
		return nil, apperr.NotFoundf("Category not found with id: %s", categoryID)
	}
	out := []model.Post{}
	for _, p := range m.posts {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPosts) Get(_ context.Context, id string) (*model.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, apperr.NotFoundf("Post not found with id: %s", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) Create(_ context.Context, p *model.Post) (*model.Post, error) {
	author, ok := m.users[p.AuthorID]
	if !ok {
		return nil, apperr.NotFoundf("Author not found with id: %s", p.AuthorID)
	}
	if p.CategoryID != nil {
		if _, ok := m.cats[*p.CategoryID]; !ok {
			return nil, apperr.NotFoundf("Category not found with id: %s", *p.CategoryID)
		}
	}
	p.ID = (*memStore)(m).nextID()
	p.Author = &model.UserSummary{ID: author.ID, Name: author.Name, Email: author.Email}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.posts[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *memPosts) Update(_ context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, apperr.NotFoundf("Post not found with id: %s", id)
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	if patch.CategoryID != nil {
		if _, ok := m.cats[*patch.CategoryID]; !ok {
			return nil, apperr.NotFoundf("Category not found with id: %s", *patch.CategoryID)
		}
		p.CategoryID = patch.CategoryID
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *memPosts) Delete(_ context.Context, id string) (*model.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, apperr.NotFoundf("Post not found with id: %s", id)
	}
	delete(m.posts, id)
	return p, nil
}

type memProducts memStore

func (m *memProducts) List(_ context.Context, filter model.ProductFilter) ([]model.Product, error) {
	out := []model.Product{}
	for _, p := range m.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProducts) Get(_ context.Context, id string) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFoundf("Product not found with id: %s", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) Create(_ context.Context, p *model.Product) (*model.Product, error) {
	p.ID = (*memStore)(m).nextID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *memProducts) Update(_ context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFoundf("Product not found with id: %s", id)
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *memProducts) Delete(_ context.Context, id string) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFoundf("Product not found with id: %s", id)
	}
	for _, o := range m.orders {
		for _, item := range o.Items {
			if item.ProductID == id {
				return nil, apperr.Conflictf("Product is referenced by existing orders")
			}
		}
	}
	delete(m.products, id)
	for rid, rv := range m.reviews {
		if rv.ProductID == id {
			delete(m.reviews, rid)
		}
	}
	return p, nil
}

type memOrders memStore

func (m *memOrders) Create(_ context.Context, userID string, lines []model.OrderLine) (*model.Order, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, apperr.NotFoundf("User not found with id: %s", userID)
	}
	o := &model.Order{
		ID:     (*memStore)(m).nextID(),
		UserID: userID,
		User:   &model.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email},
		Status: model.StatusPending,
		Total:  decimal.Zero,
	}
	for _, line := range lines {
		prod, ok := m.products[line.ProductID]
		if !ok {
			return nil, apperr.NotFoundf("Product not found with id: %s", line.ProductID)
		}
		o.Items = append(o.Items, model.OrderItem{
			ID:        (*memStore)(m).nextID(),
			ProductID: prod.ID,
			Quantity:  line.Quantity,
			Price:     prod.Price,
		})
		o.Total = o.Total.Add(prod.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (m *memOrders) Get(_ context.Context, id string) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFoundf("Order not found with id: %s", id)
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string, page model.PageQuery) ([]model.Order, int64, error) {
	out := []model.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, to model.OrderStatus) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFoundf("Order not found with id: %s", id)
	}
	if err := model.CheckTransition(o.Status, to); err != nil {
		return nil, err
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, nil
}

func (m *memOrders) Delete(_ context.Context, id string) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFoundf("Order not found with id: %s", id)
	}
	delete(m.orders, id)
	return o, nil
}

type memCategories memStore

func (m *memCategories) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(m.cats))
	for _, c := range m.cats {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCategories) Get(_ context.Context, id string) (*model.Category, error) {
	c, ok := m.cats[id]
	if !ok {
		return nil, apperr.NotFoundf("Category not found with id: %s", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memCategories) Create(_ context.Context, c *model.Category) (*model.Category, error) {
	for _, existing := range m.cats {
		if existing.Slug == c.Slug {
			return nil, apperr.Conflictf("Category slug already exists")
		}
	}
	c.ID = (*memStore)(m).nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.cats[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *memCategories) Delete(_ context.Context, id string) (*model.Category, error) {
	c, ok := m.cats[id]
	if !ok {
		return nil, apperr.NotFoundf("Category not found with id: %s", id)
	}
	delete(m.cats, id)
	return c, nil
}

type memCatalog memStore

func (m *memCatalog) CreateCategoryWithProduct(ctx context.Context, c *model.Category, p *model.Product) (*model.Category, *model.Product, error) {
	cat, err := (*memCategories)(m).Create(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	if m.failCatalog {
		delete(m.cats, cat.ID) // roll back
		return nil, nil, apperr.Conflictf("Product already exists")
	}
	p.Category = cat.Slug
	prod, err := (*memProducts)(m).Create(ctx, p)
	if err != nil {
		delete(m.cats, cat.ID)
		return nil, nil, err
	}
	return cat, prod, nil
}

type memTags memStore

func (m *memTags) List(_ context.Context, tagType string) ([]model.Tag, error) {
	out := []model.Tag{}
	for _, tg := range m.tags {
		if tagType != "" && tg.Type != tagType {
			continue
		}
		out = append(out, *tg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memTags) Get(_ context.Context, id string) (*model.Tag, error) {
	tg, ok := m.tags[id]
	if !ok {
		return nil, apperr.NotFoundf("Tag not found with id: %s", id)
	}
	cp := *tg
	return &cp, nil
}

func (m *memTags) Create(_ context.Context, tg *model.Tag) (*model.Tag, error) {
	for _, existing := range m.tags {
		if existing.Slug == tg.Slug {
			return nil, apperr.Conflictf("Tag slug already exists")
		}
	}
	tg.ID = (*memStore)(m).nextID()
	tg.CreatedAt = time.Now()
	tg.UpdatedAt = tg.CreatedAt
	m.tags[tg.ID] = tg
	cp := *tg
	return &cp, nil
}

type memReviews memStore

func (m *memReviews) Create(_ context.Context, r *model.Review) (*model.Review, error) {
	if _, ok := m.users[r.UserID]; !ok {
		return nil, apperr.NotFoundf("User not found with id: %s", r.UserID)
	}
	if _, ok := m.products[r.ProductID]; !ok {
		return nil, apperr.NotFoundf("Product not found with id: %s", r.ProductID)
	}
	for _, existing := range m.reviews {
		if existing.UserID == r.UserID && existing.ProductID == r.ProductID {
			return nil, apperr.Conflictf("Review already exists for this user and product")
		}
	}
	r.ID = (*memStore)(m).nextID()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.reviews[r.ID] = r
	cp := *r
	return &cp, nil
}

func (m *memReviews) ListByProduct(_ context.Context, productID string) ([]model.Review, error) {
	out := []model.Review{}
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memReviews) Delete(_ context.Context, id string) (*model.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, apperr.NotFoundf("Review not found with id: %s", id)
	}
	delete(m.reviews, id)
	return r, nil
}
