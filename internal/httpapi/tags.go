package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crudlab/dualstore/internal/httpx"
	"github.com/crudlab/dualstore/internal/model"
)

type createTagReq struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Type string `json:"type"`
}

func (rs *resources) listTags(c *gin.Context) {
	tags, err := rs.st.Tags.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Collection(c, len(tags), tags)
}

func (rs *resources) getTag(c *gin.Context) {
	tag, err := rs.st.Tags.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "", tag)
}

func (rs *resources) createTag(c *gin.Context) {
	var req createTagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		httpx.Fail(c, http.StatusBadRequest, "Please provide name")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = model.Slugify(req.Name)
	}
	tag, err := rs.st.Tags.Create(c.Request.Context(), &model.Tag{
		Name: req.Name,
		Slug: slug,
		Type: req.Type,
	})
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Created(c, "Tag created successfully", tag)
}
