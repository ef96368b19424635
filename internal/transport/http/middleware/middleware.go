// Package middleware holds the request-shaping chain and the auth guard.
// Rejections emit the same {status:false, errorMessage} body the handlers
// use, so clients see one error shape everywhere.
package middleware

import "github.com/gin-gonic/gin"

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":       false,
		"errorMessage": msg,
	})
}
