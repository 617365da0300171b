// Package httpx carries the gin middleware and the response envelope every
// handler speaks: {success, message?, count?, total?, data?}.
package httpx

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crudlab/dualstore/internal/apperr"
)

func OK(c *gin.Context, message string, data any) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusOK, body)
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Collection writes a list response. count is the number of returned items.
func Collection(c *gin.Context, count int, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   count,
		"data":    data,
	})
}

// Paged writes a paginated list response: count of returned items plus the
// total collection size.
func Paged(c *gin.Context, count int, total int64, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   count,
		"total":   total,
		"data":    data,
	})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// Error is the single place mapping a repository error to a failure
// envelope. Upstream causes are logged; their detail reaches the client
// only in development mode.
func Error(c *gin.Context, err error, dev bool) {
	status := apperr.Status(err)
	body := gin.H{"success": false, "message": apperr.Message(err)}
	if status == http.StatusInternalServerError {
		rid, _ := c.Get("rid")
		log.Printf("[error] rid=%v %s %s: %v", rid, c.Request.Method, c.Request.URL.Path, err)
		if dev {
			body["error"] = err.Error()
		}
	}
	c.JSON(status, body)
}
