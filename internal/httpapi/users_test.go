package httpapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, r http.Handler, email, name string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/postgres/users", gin.H{"email": email, "name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return dataField(t, w)["id"].(string)
}

func TestCreateUserValidation(t *testing.T) {
	r := newTestApp(newMemStore())

	cases := []struct {
		payload gin.H
		message string
	}{
		{gin.H{"name": "Ana"}, "Please provide email and name"},
		{gin.H{"email": "ana@example.com"}, "Please provide email and name"},
		{gin.H{}, "Please provide email and name"},
		{gin.H{"email": "ana@example.com", "name": "Ana", "age": -1}, "Age cannot be negative"},
	}
	for _, tc := range cases {
		w := doJSON(t, r, http.MethodPost, "/api/postgres/users", tc.payload)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, tc.message, decodeBody(t, w)["message"])
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	r := newTestApp(newMemStore())
	createTestUser(t, r, "dup@example.com", "First")

	w := doJSON(t, r, http.MethodPost, "/api/postgres/users", gin.H{
		"email": "dup@example.com", "name": "Second",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "Email already exists", decodeBody(t, w)["message"])
}

func TestGetUserLifecycle(t *testing.T) {
	r := newTestApp(newMemStore())
	id := createTestUser(t, r, "lia@example.com", "Lia")

	w := doJSON(t, r, http.MethodGet, "/api/postgres/users/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Lia", dataField(t, w)["name"])

	w = doJSON(t, r, http.MethodDelete, "/api/postgres/users/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "User deleted successfully", decodeBody(t, w)["message"])

	// Deleting removes the record; a second read must miss.
	w = doJSON(t, r, http.MethodGet, "/api/postgres/users/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "User not found with id: "+id, decodeBody(t, w)["message"])
}

func TestUpdateUserPartial(t *testing.T) {
	r := newTestApp(newMemStore())
	id := createTestUser(t, r, "sam@example.com", "Sam")

	// Empty patch is a no-op that still succeeds.
	w := doJSON(t, r, http.MethodPatch, "/api/postgres/users/"+id, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	require.Equal(t, "Sam", data["name"])
	require.Equal(t, "sam@example.com", data["email"])

	// So is a request with no body at all.
	w = doJSON(t, r, http.MethodPatch, "/api/postgres/users/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Sam", dataField(t, w)["name"])

	// Single-field patch leaves the rest untouched.
	w = doJSON(t, r, http.MethodPatch, "/api/postgres/users/"+id, gin.H{"name": "Samuel"})
	require.Equal(t, http.StatusOK, w.Code)
	data = dataField(t, w)
	require.Equal(t, "Samuel", data["name"])
	require.Equal(t, "sam@example.com", data["email"])

	// Explicit empty strings are rejected, not treated as clears.
	w = doJSON(t, r, http.MethodPatch, "/api/postgres/users/"+id, gin.H{"email": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Email cannot be empty", decodeBody(t, w)["message"])
}

func TestDeleteUserTakesDependentsAlong(t *testing.T) {
	r := newTestApp(newMemStore())
	userID := createTestUser(t, r, "gone@example.com", "Gone")

	w := doJSON(t, r, http.MethodPost, "/api/postgres/posts", gin.H{
		"title": "Mine", "authorId": userID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := dataField(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodDelete, "/api/postgres/users/"+userID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/postgres/posts/"+postID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserNotFound(t *testing.T) {
	r := newTestApp(newMemStore())

	w := doJSON(t, r, http.MethodPut, "/api/postgres/users/missing-id", gin.H{"name": "X"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsersPagination(t *testing.T) {
	r := newTestApp(newMemStore())
	for i := 0; i < 25; i++ {
		createTestUser(t, r, fmt.Sprintf("user%02d@example.com", i), fmt.Sprintf("User %02d", i))
	}

	// Unpaginated: the whole collection, no total field.
	w := doJSON(t, r, http.MethodGet, "/api/postgres/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, float64(25), body["count"])
	require.NotContains(t, body, "total")

	// Page 2 of 10: exactly 10 records, total 25.
	w = doJSON(t, r, http.MethodGet, "/api/postgres/users?page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	require.Equal(t, float64(10), body["count"])
	require.Equal(t, float64(25), body["total"])
	require.Len(t, body["data"].([]any), 10)

	// Page past the end: empty data, same total.
	w = doJSON(t, r, http.MethodGet, "/api/postgres/users?page=9&limit=10", nil)
	body = decodeBody(t, w)
	require.Equal(t, float64(0), body["count"])
	require.Equal(t, float64(25), body["total"])
}

func TestInvalidJSONBody(t *testing.T) {
	r := newTestApp(newMemStore())

	w := doJSON(t, r, http.MethodPost, "/api/postgres/users", "not an object")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid request body", decodeBody(t, w)["message"])
}
