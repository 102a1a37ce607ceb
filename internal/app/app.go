package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/feedmill/feedmill-backend/internal/data/db"
	httpx "github.com/feedmill/feedmill-backend/internal/http"
	"github.com/feedmill/feedmill-backend/internal/platform/logger"
	"github.com/feedmill/feedmill-backend/internal/scheduler"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpx.Server
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	sched *scheduler.Scheduler
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg := LoadConfig(log)

	theDB, err := openDatabase(cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, reposet)
	handlerset := wireHandlers(log, serviceset)
	server := wireRouter(handlerset)

	return &App{
		Log:      log,
		DB:       theDB,
		Server:   server,
		Router:   server.Engine,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		sched:    scheduler.New(serviceset.Material, log, cfg.LowStockCron),
	}, nil
}

func openDatabase(cfg Config, log *logger.Logger) (*gorm.DB, error) {
	switch strings.ToLower(cfg.DBDriver) {
	case "sqlite":
		svc, err := db.NewSQLiteService(log)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		if err := svc.AutoMigrateAll(); err != nil {
			return nil, fmt.Errorf("sqlite automigrate: %w", err)
		}
		return svc.DB(), nil
	default:
		svc, err := db.NewPostgresService(log)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		if err := svc.AutoMigrateAll(); err != nil {
			return nil, fmt.Errorf("postgres automigrate: %w", err)
		}
		return svc.DB(), nil
	}
}

// Start launches the background scheduler and runs the first low-stock scan so
// the gauge is populated immediately.
func (a *App) Start() error {
	if err := a.sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	go a.sched.ScanLowStock()
	return nil
}

func (a *App) Stop() {
	a.sched.Stop()
	a.Log.Sync()
}

func (a *App) Run(address string) error {
	a.Log.Info("HTTP server listening", "addr", address)
	return a.Server.Run(address)
}
