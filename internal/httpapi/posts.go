package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crudlab/dualstore/internal/httpx"
	"github.com/crudlab/dualstore/internal/model"
)

type createPostReq struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Published  bool    `json:"published"`
	AuthorID   string  `json:"authorId"`
	CategoryID *string `json:"categoryId"`
}

func (rs *resources) listPosts(c *gin.Context) {
	posts, err := rs.st.Posts.List(c.Request.Context())
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Collection(c, len(posts), posts)
}

func (rs *resources) listCategoryPosts(c *gin.Context) {
	posts, err := rs.st.Posts.ListByCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Collection(c, len(posts), posts)
}

func (rs *resources) getPost(c *gin.Context) {
	post, err := rs.st.Posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "", post)
}

func (rs *resources) createPost(c *gin.Context) {
	var req createPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.AuthorID == "" {
		httpx.Fail(c, http.StatusBadRequest, "Please provide title and authorId")
		return
	}

	post, err := rs.st.Posts.Create(c.Request.Context(), &model.Post{
		Title:      req.Title,
		Content:    req.Content,
		Published:  req.Published,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Created(c, "Post created successfully", post)
}

func (rs *resources) updatePost(c *gin.Context) {
	var patch model.PostPatch
	if err := bindPatch(c, &patch); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Title != nil && *patch.Title == "" {
		httpx.Fail(c, http.StatusBadRequest, "Title cannot be empty")
		return
	}

	post, err := rs.st.Posts.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "Post updated successfully", post)
}

func (rs *resources) deletePost(c *gin.Context) {
	post, err := rs.st.Posts.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "Post deleted successfully", post)
}
