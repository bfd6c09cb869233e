package app

import (
	"github.com/mgayathri3/SecureSignIn/internal/auth"
	"github.com/mgayathri3/SecureSignIn/internal/cache"
	"github.com/mgayathri3/SecureSignIn/internal/config"
	"github.com/mgayathri3/SecureSignIn/internal/handlers"
	"github.com/mgayathri3/SecureSignIn/internal/repo"
	"github.com/mgayathri3/SecureSignIn/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	_ "github.com/mgayathri3/SecureSignIn/docs"
)

// Setup registers all routes on the given engine. db and rdb may be nil; the
// in-memory stores are used then.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api")

	var sessions auth.SessionStore
	if rdb != nil {
		sessions = auth.NewRedisStore(rdb, cfg.Auth.SessionTTL.Duration())
	} else {
		sessions = auth.NewMemoryStore(cfg.Auth.SessionTTL.Duration())
	}

	var userRepo repo.UserRepo
	if db != nil {
		userRepo = repo.NewPGUserRepo(db)
	} else {
		userRepo = repo.NewMemoryUserRepo()
	}

	var userCache *cache.UserCache
	if rdb != nil {
		userCache = cache.NewUserCache(rdb, cfg.Redis.CacheTTL.Duration())
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	userSvc := service.NewUserService(userRepo, hasher, userCache)

	authHandler := handlers.NewAuthHandler(sessions, userSvc)
	api.POST("/login", authHandler.Login)
	api.POST("/signup", authHandler.Signup)
	api.POST("/logout", authHandler.Logout)

	userHandler := handlers.NewUserHandler(userSvc)
	protected := api.Group("", auth.RequireSession(sessions))
	protected.GET("/user", userHandler.CurrentUser)
	protected.PUT("/profile", userHandler.UpdateProfile)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "SecureSignIn API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
