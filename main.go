package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cppla/articles/config"
	"github.com/cppla/articles/metrics"
	"github.com/cppla/articles/models"
	"github.com/cppla/articles/repository"
	"github.com/cppla/articles/routes"
	"github.com/cppla/articles/utils"
)

type store interface {
	Articles() repository.ArticleRepository
	Comments() repository.CommentRepository
}

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var s store
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		utils.Sugar.Warn("using in-memory store; data is lost on restart")
		s = repository.NewMemoryStore()
	case config.DriverMySQL:
		db := config.InitDatabase(&models.Article{}, &models.Comment{})
		if cfg.MetricsEnabled {
			cb := &metrics.Callbacks{Namespace: "articles", Name: "db_seconds", Registerer: reg}
			if err := cb.Register(db); err != nil {
				utils.Sugar.Fatalf("register db metrics: %v", err)
			}
		}
		s = repository.NewGormStore(db)
	default:
		utils.Sugar.Fatalf("unknown database driver %q", cfg.DatabaseDriver)
	}

	r, err := routes.SetupRouter(cfg, routes.Deps{
		Articles: s.Articles(),
		Comments: s.Comments(),
		Registry: reg,
	})
	if err != nil {
		utils.Sugar.Fatalf("setup router: %v", err)
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	shutdownTimeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	if err := utils.GraceServer(":"+cfg.AppPort, r, shutdownTimeout); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
