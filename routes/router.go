package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cppla/articles/config"
	"github.com/cppla/articles/controllers"
	"github.com/cppla/articles/metrics"
	"github.com/cppla/articles/middleware"
	"github.com/cppla/articles/repository"
	"github.com/cppla/articles/services"
	"github.com/cppla/articles/utils"
	"github.com/cppla/articles/validation"
)

// Deps are the collaborators the router wires into controllers.
type Deps struct {
	Articles repository.ArticleRepository
	Comments repository.CommentRepository
	// Registry receives the HTTP collectors and backs the metrics endpoint.
	// Nil disables metrics regardless of configuration.
	Registry *prometheus.Registry
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, deps Deps) (*gin.Engine, error) {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	// access log goes to its own rolling file when GinPath is set
	accessLog := utils.Logger
	if cfg.GinPath != "" {
		accessLog = utils.NewAccessLogger(cfg, cfg.GinPath)
	}
	r.Use(ginzap.GinzapWithConfig(accessLog, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(ctx *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("request_id", middleware.GetRequestID(ctx))}
		},
	}))
	r.Use(ginzap.RecoveryWithZap(accessLog, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	if cfg.MetricsEnabled && deps.Registry != nil {
		b := &metrics.Builder{Namespace: "articles", Name: "http", Registerer: deps.Registry}
		respTime, err := b.ResponseTime()
		if err != nil {
			return nil, err
		}
		active, err := b.ActiveRequests()
		if err != nil {
			return nil, err
		}
		r.Use(respTime, active)
		r.GET(cfg.MetricsPath, metrics.Handler(deps.Registry))
	}

	r.GET("/health", func(ctx *gin.Context) {
		utils.Respond(ctx, http.StatusOK, gin.H{"status": "ok"})
	})

	v := validation.New(validation.Limits{TitleMax: cfg.TitleMax, AuthorNameMax: cfg.AuthorNameMax})
	articleController := controllers.NewArticleController(services.NewArticleService(deps.Articles, v))
	commentController := controllers.NewCommentController(services.NewCommentService(deps.Articles, deps.Comments, v))

	articles := r.Group("/articles")
	articles.GET("", articleController.ListArticles)
	articles.POST("", articleController.CreateArticle)
	articles.GET("/:id", articleController.GetArticle)
	articles.PATCH("/:id", articleController.UpdateArticle)
	articles.DELETE("/:id", articleController.DeleteArticle)

	articles.GET("/:id/comments", commentController.ListComments)
	articles.POST("/:id/comments", commentController.CreateComment)
	articles.DELETE("/:id/comments/:comment_id", commentController.DeleteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Errors(ctx, http.StatusNotFound, "route not found")
	})

	return r, nil
}
