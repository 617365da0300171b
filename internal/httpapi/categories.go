package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crudlab/dualstore/internal/httpx"
	"github.com/crudlab/dualstore/internal/model"
)

type createCategoryReq struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ParentID *string `json:"parentId"`
}

type createCatalogReq struct {
	Category createCategoryReq `json:"category"`
	Product  createProductReq  `json:"product"`
}

func (rs *resources) listCategories(c *gin.Context) {
	categories, err := rs.st.Categories.List(c.Request.Context())
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Collection(c, len(categories), categories)
}

func (rs *resources) getCategory(c *gin.Context) {
	category, err := rs.st.Categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "", category)
}

func (rs *resources) createCategory(c *gin.Context) {
	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		httpx.Fail(c, http.StatusBadRequest, "Please provide name")
		return
	}

	category, err := rs.st.Categories.Create(c.Request.Context(), categoryFromReq(req))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Created(c, "Category created successfully", category)
}

func (rs *resources) deleteCategory(c *gin.Context) {
	category, err := rs.st.Categories.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "Category deleted successfully", category)
}

// createCatalog creates a category and a product inside it atomically. Only
// mounted on backends whose Stores carry a Catalog.
func (rs *resources) createCatalog(c *gin.Context) {
	var req createCatalogReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Category.Name == "" {
		httpx.Fail(c, http.StatusBadRequest, "Please provide category name")
		return
	}
	if req.Product.Name == "" || req.Product.Price == nil {
		httpx.Fail(c, http.StatusBadRequest, "Please provide product name and price")
		return
	}
	if req.Product.Price.IsNegative() {
		httpx.Fail(c, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	prod := &model.Product{
		Name:        req.Product.Name,
		Description: req.Product.Description,
		Price:       *req.Product.Price,
		ImageURL:    req.Product.ImageURL,
		Active:      true,
	}
	if req.Product.Stock != nil {
		prod.Stock = *req.Product.Stock
	}
	if req.Product.Active != nil {
		prod.Active = *req.Product.Active
	}

	category, product, err := rs.st.Catalog.CreateCategoryWithProduct(
		c.Request.Context(), categoryFromReq(req.Category), prod)
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Created(c, "Catalog created successfully", gin.H{
		"category": category,
		"product":  product,
	})
}

func categoryFromReq(req createCategoryReq) *model.Category {
	slug := req.Slug
	if slug == "" {
		slug = model.Slugify(req.Name)
	}
	return &model.Category{
		Name:     req.Name,
		Slug:     slug,
		ParentID: req.ParentID,
	}
}
