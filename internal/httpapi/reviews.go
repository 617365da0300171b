package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crudlab/dualstore/internal/httpx"
	"github.com/crudlab/dualstore/internal/model"
)

type createReviewReq struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (rs *resources) listProductReviews(c *gin.Context) {
	reviews, err := rs.st.Reviews.ListByProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Collection(c, len(reviews), reviews)
}

func (rs *resources) createReview(c *gin.Context) {
	var req createReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		httpx.Fail(c, http.StatusBadRequest, "Please provide userId and productId")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		httpx.Fail(c, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	review, err := rs.st.Reviews.Create(c.Request.Context(), &model.Review{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Created(c, "Review created successfully", review)
}

func (rs *resources) deleteReview(c *gin.Context) {
	review, err := rs.st.Reviews.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "Review deleted successfully", review)
}
