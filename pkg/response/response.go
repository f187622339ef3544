package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK sends {ok:true} merged with any extra fields
func OK(c *gin.Context, extra gin.H) {
	body := gin.H{"ok": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// List sends the standard listing envelope {ok, items, count}
func List(c *gin.Context, items interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"items": items,
		"count": count,
	})
}

// Fail sends {ok:false, error} with the given status
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"ok":    false,
		"error": message,
	})
}

// BadRequest sends a 400 failure
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 failure
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// InternalError sends a 500 failure
func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message)
}
