package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/crudlab/dualstore/internal/httpx"
	"github.com/crudlab/dualstore/internal/model"
)

type createProductReq struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	Stock       *int             `json:"stock"`
	ImageURL    string           `json:"imageUrl"`
	Active      *bool            `json:"active"`
}

func productFilter(c *gin.Context) (model.ProductFilter, error) {
	f := model.ProductFilter{Category: c.Query("category")}
	if raw := c.Query("minPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return f, err
		}
		f.MinPrice = &d
	}
	if raw := c.Query("maxPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return f, err
		}
		f.MaxPrice = &d
	}
	return f, nil
}

func (rs *resources) listProducts(c *gin.Context) {
	filter, err := productFilter(c)
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid price filter")
		return
	}
	products, err := rs.st.Products.List(c.Request.Context(), filter)
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Collection(c, len(products), products)
}

func (rs *resources) getProduct(c *gin.Context) {
	product, err := rs.st.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "", product)
}

func (rs *resources) createProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Price == nil || req.Category == "" {
		httpx.Fail(c, http.StatusBadRequest, "Please provide name, price, and category")
		return
	}
	if req.Price.IsNegative() {
		httpx.Fail(c, http.StatusBadRequest, "Price cannot be negative")
		return
	}
	if req.Stock != nil && *req.Stock < 0 {
		httpx.Fail(c, http.StatusBadRequest, "Stock cannot be negative")
		return
	}

	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	product, err := rs.st.Products.Create(c.Request.Context(), p)
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Created(c, "Product created successfully", product)
}

func (rs *resources) updateProduct(c *gin.Context) {
	var patch model.ProductPatch
	if err := bindPatch(c, &patch); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Name != nil && *patch.Name == "" {
		httpx.Fail(c, http.StatusBadRequest, "Name cannot be empty")
		return
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		httpx.Fail(c, http.StatusBadRequest, "Price cannot be negative")
		return
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		httpx.Fail(c, http.StatusBadRequest, "Stock cannot be negative")
		return
	}

	product, err := rs.st.Products.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "Product updated successfully", product)
}

func (rs *resources) deleteProduct(c *gin.Context) {
	product, err := rs.st.Products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "Product deleted successfully", product)
}
