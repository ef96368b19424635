package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-product-catalog/internal/core/auth"
	"go-product-catalog/internal/core/cache"
	"go-product-catalog/internal/core/config"
	"go-product-catalog/internal/core/server"
	"go-product-catalog/internal/repo"
	"go-product-catalog/internal/storage"
	"go-product-catalog/internal/transport/http/handler"
	mdw "go-product-catalog/internal/transport/http/middleware"
)

// NewAPIEngine wires the full route table. Routes stay at the root (no
// /api/v1 prefix) to match the paths existing clients call.
func NewAPIEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer, ch *cache.Cache, store *storage.Store, cfg *config.Config) *gin.Engine {
	r := server.NewRouter(l, cfg.CORS.AllowOrigins)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(int64(cfg.Upload.MaxBodyMB)<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", store.Dir)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": true, "title": "Apis"})
	})

	users := repo.NewUserRepo(db)
	products := repo.NewProductRepo(db)

	public := r.Group("")
	// the credential endpoints get a much tighter per-IP budget
	public.Use(mdw.RateLimitPerIP(5, 20))

	protected := r.Group("")
	protected.Use(mdw.AuthGuard(jwter))

	reg := NewRegistry()
	reg.Register(handler.NewAuthHandler(users, jwter, store, ch))
	reg.Register(handler.NewProductHandler(products, store))
	reg.Register(handler.NewUserHandler(users, store, ch))
	reg.MountAll(public, protected)

	return r
}
