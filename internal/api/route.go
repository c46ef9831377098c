package api

import (
	"Bandwall/internal/api/config"
	"Bandwall/internal/api/handler"
	"Bandwall/internal/api/middleware"
	"Bandwall/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, cfg *config.Config) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(cfg.Server.TrustedProxies)

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r, cfg.Log)

	r.GET("/ping", handler.Ping)
	r.GET("/docs/openapi.yaml", handler.OpenAPI)

	postGroup := r.Group("/posts")
	postGroup.Use(middleware.IdentityMiddleware(cfg.Content.AnonymousCreator))
	{
		postGroup.GET("", group.PostHandler.ListPosts)
		postGroup.POST("", group.PostHandler.CreatePost)

		commentGroup := postGroup.Group("/:post_id/comments")
		{
			commentGroup.POST("", group.CommentHandler.AddComment)
			commentGroup.DELETE("/:comment_id", group.CommentHandler.DeleteComment)
		}
	}

	return r
}
