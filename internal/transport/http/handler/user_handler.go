package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-product-catalog/internal/core/cache"
	"go-product-catalog/internal/domain"
	"go-product-catalog/internal/storage"
	"go-product-catalog/internal/transport/http/middleware"
	"go-product-catalog/internal/transport/http/response"
)

const userInfoTTL = 5 * time.Minute

type UserHandler struct {
	users domain.UserRepository
	store *storage.Store
	cache *cache.Cache
}

func NewUserHandler(users domain.UserRepository, store *storage.Store, c *cache.Cache) *UserHandler {
	return &UserHandler{users: users, store: store, cache: c}
}

func (h *UserHandler) MountProtected(g *gin.RouterGroup) {
	g.PUT("/update-profile", h.UpdateProfile)
	g.GET("/user-info", h.UserInfo)
}

type updateProfileReq struct {
	Name     string `form:"name"`
	Username string `form:"username"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		response.Fail(c, response.Unauthorized("User unauthorized!"))
		return
	}

	var req updateProfileReq
	if err := c.ShouldBind(&req); err != nil || req.Name == "" || req.Username == "" {
		response.Fail(c, response.BadRequest("Name and username are required!"))
		return
	}

	taken, err := h.users.UsernameTaken(c.Request.Context(), req.Username, p.UserID)
	if err != nil {
		response.Fail(c, response.Internal("check username", err))
		return
	}
	if taken {
		response.Fail(c, response.Conflict("Username already exists!"))
		return
	}

	image, err := h.store.SaveImage(formFile(c, "profileImage"))
	if err != nil {
		response.Fail(c, response.Internal("save profile image", err))
		return
	}

	u, err := h.users.UpdateProfile(c.Request.Context(), p.UserID, domain.ProfileUpdate{
		Name:     req.Name,
		Username: req.Username,
		Image:    image,
	})
	if err != nil {
		response.Fail(c, response.Internal("update profile", err))
		return
	}
	if u == nil {
		response.Fail(c, response.NotFound("User not found!"))
		return
	}
	h.cache.Delete(c.Request.Context(), userCacheKey(p.UserID))

	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Profile updated successfully!",
		"user":    userView(u),
	})
}

func (h *UserHandler) UserInfo(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		response.Fail(c, response.Unauthorized("User unauthorized!"))
		return
	}

	u, err := cache.GetOrLoadJSON[domain.User](h.cache, c.Request.Context(), userCacheKey(p.UserID), userInfoTTL,
		func(ctx context.Context) (*domain.User, error) {
			return h.users.FindByID(ctx, p.UserID)
		})
	if err != nil {
		response.Fail(c, response.Internal("load user", err))
		return
	}
	if u == nil {
		response.Fail(c, response.NotFound("User not found!"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"user":   userView(u),
	})
}
