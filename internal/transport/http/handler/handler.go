// Package handler implements the HTTP endpoints. Every endpoint binds its
// payload into a typed request before touching any logic, and answers with
// the legacy wire shapes.
package handler

import (
	"fmt"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"go-product-catalog/internal/domain"
)

// userView is the public projection of a user record.
func userView(u *domain.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"username":     u.Username,
		"name":         u.Name,
		"profileImage": u.ProfileImage,
	}
}

func userCacheKey(id uint) string { return fmt.Sprintf("user:info:%d", id) }

// formFile fetches a named upload; absence is not an error.
func formFile(c *gin.Context, name string) *multipart.FileHeader {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return fh
}

// anyFormFile returns the first file in the form regardless of field name.
// The legacy register endpoint accepted the image under any field.
func anyFormFile(c *gin.Context) *multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	for _, fhs := range form.File {
		if len(fhs) > 0 {
			return fhs[0]
		}
	}
	return nil
}
