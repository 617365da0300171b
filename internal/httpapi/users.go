package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crudlab/dualstore/internal/httpx"
	"github.com/crudlab/dualstore/internal/model"
)

type createUserReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   *int   `json:"age"`
}

func (rs *resources) listUsers(c *gin.Context) {
	page := pageQuery(c)
	users, total, err := rs.st.Users.List(c.Request.Context(), page)
	if err != nil {
		rs.err(c, err)
		return
	}
	if page.Requested() {
		httpx.Paged(c, len(users), total, users)
		return
	}
	httpx.Collection(c, len(users), users)
}

func (rs *resources) getUser(c *gin.Context) {
	user, err := rs.st.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "", user)
}

func (rs *resources) createUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Name == "" {
		httpx.Fail(c, http.StatusBadRequest, "Please provide email and name")
		return
	}
	if req.Age != nil && *req.Age < 0 {
		httpx.Fail(c, http.StatusBadRequest, "Age cannot be negative")
		return
	}

	user, err := rs.st.Users.Create(c.Request.Context(), &model.User{
		Email: req.Email,
		Name:  req.Name,
		Age:   req.Age,
	})
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Created(c, "User created successfully", user)
}

func (rs *resources) updateUser(c *gin.Context) {
	var patch model.UserPatch
	if err := bindPatch(c, &patch); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Email != nil && *patch.Email == "" {
		httpx.Fail(c, http.StatusBadRequest, "Email cannot be empty")
		return
	}
	if patch.Name != nil && *patch.Name == "" {
		httpx.Fail(c, http.StatusBadRequest, "Name cannot be empty")
		return
	}
	if patch.Age != nil && *patch.Age < 0 {
		httpx.Fail(c, http.StatusBadRequest, "Age cannot be negative")
		return
	}

	user, err := rs.st.Users.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "User updated successfully", user)
}

func (rs *resources) deleteUser(c *gin.Context) {
	user, err := rs.st.Users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "User deleted successfully", user)
}
