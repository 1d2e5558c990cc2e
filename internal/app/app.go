package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-progress/internal/data/db"
	httpapi "github.com/yungbote/neurobridge-progress/internal/http"
	"github.com/yungbote/neurobridge-progress/internal/jobs"
	"github.com/yungbote/neurobridge-progress/internal/observability"
	"github.com/yungbote/neurobridge-progress/internal/platform/clock"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type App struct {
	Log       *logger.Logger
	DB        *gorm.DB
	Cfg       Config
	Clock     clock.Clock
	Metrics   *observability.Metrics
	Repos     Repos
	Clients   Clients
	Services  Services
	Router    *gin.Engine
	Scheduler *jobs.Scheduler

	dbService *db.Service
	server    *httpapi.Server
	otelStop  func(context.Context) error
}

// Options tweak New for tools and tests.
type Options struct {
	// Clock defaults to the system clock.
	Clock clock.Clock
	// SkipMigrate leaves the schema untouched.
	SkipMigrate bool
}

func New(ctx context.Context, opts Options) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.System()
	}

	otelCfg := observability.OtelConfigFromEnv()
	otelStop := observability.InitOTel(ctx, log, otelCfg)
	if !otelCfg.Enabled {
		cfg.ServiceName = ""
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.New(log)
	}

	dbs, err := db.Open(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if !opts.SkipMigrate {
		if err := dbs.AutoMigrateAll(); err != nil {
			_ = dbs.Close()
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	theDB := dbs.DB()

	reposet := wireRepos(theDB, log)

	clientset, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}

	serviceset, err := wireServices(theDB, log, cfg, clk, metrics, reposet, clientset)
	if err != nil {
		clientset.Close()
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}

	server := httpapi.NewServer(wireRouterConfig(log, cfg, clk, metrics, dbs, serviceset))

	scheduler := jobs.NewScheduler(log, cfg.Location(), cfg.ReconcileTimeout)
	if err := registerJobs(scheduler, cfg, serviceset); err != nil {
		clientset.Close()
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}

	return &App{
		Log:       log,
		DB:        theDB,
		Cfg:       cfg,
		Clock:     clk,
		Metrics:   metrics,
		Repos:     reposet,
		Clients:   clientset,
		Services:  serviceset,
		Router:    server.Engine,
		Scheduler: scheduler,
		dbService: dbs,
		server:    server,
		otelStop:  otelStop,
	}, nil
}

// Run starts the scheduler and serves HTTP until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Scheduler.Start()
	a.Log.Info("Server listening", "addr", a.Cfg.HTTPAddr)
	return a.server.Run(ctx, a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	a.Clients.Close()
	if a.otelStop != nil {
		_ = a.otelStop(context.Background())
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
