package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/crudlab/dualstore/internal/apperr"
)

func init() { gin.SetMode(gin.TestMode) }

func newCtx(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOKOmitsEmptyMessage(t *testing.T) {
	c, w := newCtx(t)
	OK(c, "", gin.H{"id": "1"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, true, body["success"])
	require.NotContains(t, body, "message")
	require.Contains(t, body, "data")
}

func TestCreatedEnvelope(t *testing.T) {
	c, w := newCtx(t)
	Created(c, "User created successfully", gin.H{"id": "1"})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, "User created successfully", body["message"])
}

func TestCollectionCount(t *testing.T) {
	c, w := newCtx(t)
	Collection(c, 2, []string{"a", "b"})

	body := decode(t, w)
	require.Equal(t, float64(2), body["count"])
	require.NotContains(t, body, "total")
}

func TestPagedTotal(t *testing.T) {
	c, w := newCtx(t)
	Paged(c, 10, 25, []int{})

	body := decode(t, w)
	require.Equal(t, float64(10), body["count"])
	require.Equal(t, float64(25), body["total"])
}

func TestFailEnvelope(t *testing.T) {
	c, w := newCtx(t)
	Fail(c, http.StatusBadRequest, "Please provide email and name")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Please provide email and name", body["message"])
	require.NotContains(t, body, "data")
}

func TestErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.NotFoundf("User not found with id: 9"), http.StatusNotFound, "User not found with id: 9"},
		{apperr.Conflictf("Email already exists"), http.StatusConflict, "Email already exists"},
		{apperr.MalformedIDf("Invalid user ID format"), http.StatusBadRequest, "Invalid user ID format"},
		{apperr.Validationf("Quantity must be at least 1"), http.StatusBadRequest, "Quantity must be at least 1"},
	}
	for _, tc := range cases {
		c, w := newCtx(t)
		Error(c, tc.err, false)
		require.Equal(t, tc.status, w.Code)
		body := decode(t, w)
		require.Equal(t, false, body["success"])
		require.Equal(t, tc.message, body["message"])
	}
}

func TestErrorHidesUpstreamOutsideDev(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

	c, w := newCtx(t)
	Error(c, apperr.Wrap(cause, "list users"), false)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	require.Equal(t, "Internal Server Error", body["message"])
	require.NotContains(t, body, "error")

	c, w = newCtx(t)
	Error(c, apperr.Wrap(cause, "list users"), true)
	body = decode(t, w)
	require.Contains(t, body["error"], "connection refused")
}
