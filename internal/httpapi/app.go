// Package httpapi assembles the gin application. The handler set is written
// once against the store interfaces and mounted twice, under /api/postgres
// and /api/mongo.
package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/crudlab/dualstore/internal/config"
	"github.com/crudlab/dualstore/internal/httpx"
	"github.com/crudlab/dualstore/internal/model"
	"github.com/crudlab/dualstore/internal/store"
)

const maxBodyBytes = 10 << 20 // 10mb, same cap as the JSON body parser limit

// resources is one backend's handler set: the stores it talks to plus the
// development flag controlling error detail exposure.
type resources struct {
	st  store.Stores
	dev bool
}

func (rs *resources) err(c *gin.Context, err error) {
	httpx.Error(c, err, rs.dev)
}

// Router builds the full application: middleware pipeline, both backend
// mounts, the 404 fallback and the recovery path.
func Router(cfg config.Config, pg, mg store.Stores) *gin.Engine {
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		httpx.Fail(c, http.StatusInternalServerError, "Internal Server Error")
	}))
	r.Use(httpx.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
	}))
	r.Use(httpx.RequestID())
	r.Use(httpx.Logger(cfg.Development()))
	r.Use(httpx.MaxBody(maxBodyBytes))

	r.GET("/", rootHandler(cfg))
	r.GET("/api/health", healthHandler(cfg))

	mount(r.Group("/api/postgres"), &resources{st: pg, dev: cfg.Development()}, cfg)
	mount(r.Group("/api/mongo"), &resources{st: mg, dev: cfg.Development()}, cfg)

	r.NoRoute(func(c *gin.Context) {
		httpx.Fail(c, http.StatusNotFound,
			"Route not found: "+c.Request.Method+" "+c.Request.URL.Path)
	})
	return r
}

func mount(g *gin.RouterGroup, rs *resources, cfg config.Config) {
	g.GET("/health", healthHandler(cfg))

	g.GET("/users", rs.listUsers)
	g.POST("/users", rs.createUser)
	g.GET("/users/:id", rs.getUser)
	g.PUT("/users/:id", rs.updateUser)
	g.PATCH("/users/:id", rs.updateUser)
	g.DELETE("/users/:id", rs.deleteUser)
	g.GET("/users/:id/orders", rs.listUserOrders)

	g.GET("/posts", rs.listPosts)
	g.POST("/posts", rs.createPost)
	g.GET("/posts/:id", rs.getPost)
	g.PUT("/posts/:id", rs.updatePost)
	g.PATCH("/posts/:id", rs.updatePost)
	g.DELETE("/posts/:id", rs.deletePost)

	g.GET("/products", rs.listProducts)
	g.POST("/products", rs.createProduct)
	g.GET("/products/:id", rs.getProduct)
	g.PUT("/products/:id", rs.updateProduct)
	g.PATCH("/products/:id", rs.updateProduct)
	g.DELETE("/products/:id", rs.deleteProduct)
	g.GET("/products/:id/reviews", rs.listProductReviews)

	g.POST("/orders", rs.createOrder)
	g.GET("/orders/:id", rs.getOrder)
	g.PATCH("/orders/:id/status", rs.updateOrderStatus)
	g.DELETE("/orders/:id", rs.deleteOrder)

	g.GET("/categories", rs.listCategories)
	g.POST("/categories", rs.createCategory)
	g.GET("/categories/:id", rs.getCategory)
	g.DELETE("/categories/:id", rs.deleteCategory)
	g.GET("/categories/:id/posts", rs.listCategoryPosts)

	g.GET("/tags", rs.listTags)
	g.POST("/tags", rs.createTag)
	g.GET("/tags/:id", rs.getTag)

	g.POST("/reviews", rs.createReview)
	g.DELETE("/reviews/:id", rs.deleteReview)

	// The transactional catalog path exists only where the backend provides
	// it (relational).
	if rs.st.Catalog != nil {
		g.POST("/catalog", rs.createCatalog)
	}
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Welcome to dualstore API",
			"documentation": gin.H{
				"postgres": "/api/postgres/*",
				"mongo":    "/api/mongo/*",
				"health":   "/api/health",
			},
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Server is running!",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Env,
		})
	}
}

// bindPatch decodes an optional partial-update body. A zero-byte body is a
// valid empty patch, not a malformed one.
func bindPatch(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// pageQuery reads optional page/limit parameters. Absent or non-numeric
// values leave pagination unrequested.
func pageQuery(c *gin.Context) model.PageQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return model.PageQuery{Page: page, Limit: limit}
}
