package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookbuddy-backend/internal/shared/middleware"
	"bookbuddy-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupUserRoutes(v1, c)
		setupBookRoutes(v1, c)
	}

	return router
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("/search", c.BookHandler.Search)
		books.GET("/random", c.BookHandler.Random)
	}
}

// User routes carry the library and recommendation surfaces too: everything
// is scoped to a user id issued by the chat transport.
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	{
		users.POST("", c.UserHandler.RegisterContact)
		users.GET("/:id", c.UserHandler.GetUser)

		users.POST("/:id/likes", c.LibraryHandler.Like)
		users.GET("/:id/likes", c.LibraryHandler.LikedBooks)
		users.GET("/:id/history", c.LibraryHandler.History)
		users.DELETE("/:id/history", c.LibraryHandler.ClearHistory)

		users.POST("/:id/daily", c.RecHandler.Daily)
		users.GET("/:id/daily", c.RecHandler.DailyLog)
		users.POST("/:id/recommendations", c.RecHandler.Recommend)
		users.GET("/:id/recommendations", c.RecHandler.Inbox)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
