package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-product-catalog/internal/core/auth"
	"go-product-catalog/internal/core/cache"
	"go-product-catalog/internal/domain"
	"go-product-catalog/internal/storage"
	"go-product-catalog/internal/transport/http/response"
	"go-product-catalog/pkg/utils"
)

type AuthHandler struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	store *storage.Store
	cache *cache.Cache
}

func NewAuthHandler(users domain.UserRepository, jwt *auth.JWTer, store *storage.Store, c *cache.Cache) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, store: store, cache: c}
}

func (h *AuthHandler) MountPublic(g *gin.RouterGroup) {
	g.POST("/login", h.Login)
	g.POST("/register", h.Register)
	g.POST("/check-user", h.CheckUser)
	g.POST("/reset-password", h.ResetPassword)
}

type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		response.Fail(c, response.BadRequest("Add proper parameter first!"))
		return
	}

	u, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.Fail(c, response.Internal("find user", err))
		return
	}
	if u == nil || !utils.CheckPassword(req.Password, u.PasswordHash) {
		response.Fail(c, response.BadRequest("Username or password is incorrect!"))
		return
	}

	token, err := h.jwt.Issue(u.ID, u.Username)
	if err != nil {
		response.Fail(c, response.Internal("issue token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Login Successfully.",
		"token":   token,
		"user":    userView(u),
	})
}

type registerReq struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Name     string `form:"name"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" || req.Name == "" {
		response.Fail(c, response.BadRequest("Add proper parameter first! (username, password, name required)"))
		return
	}

	existing, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.Fail(c, response.Internal("find user", err))
		return
	}
	if existing != nil {
		response.Fail(c, response.Conflict(fmt.Sprintf("UserName %s Already Exist!", req.Username)))
		return
	}

	image, err := h.store.SaveImage(anyFormFile(c))
	if err != nil {
		response.Fail(c, response.Internal("save profile image", err))
		return
	}

	u := &domain.User{
		Username:     req.Username,
		PasswordHash: utils.HashPassword(req.Password),
		Name:         req.Name,
		ProfileImage: image,
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		response.Fail(c, response.Internal("create user", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"title":  "Registered Successfully.",
	})
}

type checkUserReq struct {
	Username string `json:"username" form:"username"`
}

func (h *AuthHandler) CheckUser(c *gin.Context) {
	var req checkUserReq
	if err := c.ShouldBind(&req); err != nil || req.Username == "" {
		response.Fail(c, response.BadRequest("Username is required!"))
		return
	}

	u, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.Fail(c, response.Internal("find user", err))
		return
	}
	if u == nil {
		response.Fail(c, response.NotFound("Username not found!"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "User found!",
	})
}

type resetPasswordReq struct {
	Username    string `json:"username" form:"username"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.NewPassword == "" {
		response.Fail(c, response.BadRequest("Username and new password are required!"))
		return
	}

	u, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.Fail(c, response.Internal("find user", err))
		return
	}
	if u == nil {
		response.Fail(c, response.NotFound("Username not found!"))
		return
	}

	ok, err := h.users.UpdatePassword(c.Request.Context(), req.Username, utils.HashPassword(req.NewPassword))
	if err != nil {
		response.Fail(c, response.Internal("update password", err))
		return
	}
	if !ok {
		response.Fail(c, response.NotFound("Username not found!"))
		return
	}
	h.cache.Delete(c.Request.Context(), userCacheKey(u.ID))

	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Password reset successfully!",
	})
}
