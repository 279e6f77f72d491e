package util

import (
	"github.com/gin-gonic/gin"
)

// Response is a free-form JSON object body.
type Response map[string]interface{}

// Success writes data as the JSON body.
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error writes the uniform {"error": msg} body.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"error": msg,
	})
}

// ErrorWith writes {"error": msg} plus extra fields.
func ErrorWith(c *gin.Context, httpStatus int, msg string, extra Response) {
	body := gin.H{"error": msg}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(httpStatus, body)
}
