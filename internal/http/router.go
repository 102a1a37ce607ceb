package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/feedmill/feedmill-backend/internal/http/handlers"
	httpMW "github.com/feedmill/feedmill-backend/internal/http/middleware"
	"github.com/feedmill/feedmill-backend/internal/platform/metrics"
)

type RouterConfig struct {
	MaterialHandler    *httpH.MaterialHandler
	ProfileHandler     *httpH.ProfileHandler
	LedgerHandler      *httpH.LedgerHandler
	FormulationHandler *httpH.FormulationHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	r.Use(metrics.Middleware())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	{
		if cfg.MaterialHandler != nil {
			api.POST("/materials", cfg.MaterialHandler.Create)
			api.GET("/materials", cfg.MaterialHandler.List)
			api.GET("/materials/low-stock", cfg.MaterialHandler.ListLowStock)
			api.GET("/materials/:id", cfg.MaterialHandler.Get)
			api.PATCH("/materials/:id", cfg.MaterialHandler.Update)
			api.POST("/materials/:id/archive", cfg.MaterialHandler.Archive)
			api.POST("/materials/:id/unarchive", cfg.MaterialHandler.Unarchive)
		}

		if cfg.LedgerHandler != nil {
			api.POST("/materials/:id/receive", cfg.LedgerHandler.Receive)
			api.POST("/materials/:id/issue", cfg.LedgerHandler.Issue)
			api.GET("/materials/:id/movements", cfg.LedgerHandler.ListMovements)
		}

		if cfg.ProfileHandler != nil {
			api.POST("/profiles", cfg.ProfileHandler.Create)
			api.GET("/profiles", cfg.ProfileHandler.List)
			api.GET("/profiles/:id", cfg.ProfileHandler.Get)
			api.PUT("/profiles/:id", cfg.ProfileHandler.Update)
			api.DELETE("/profiles/:id", cfg.ProfileHandler.Delete)
		}

		if cfg.FormulationHandler != nil {
			api.POST("/formulations/preview", cfg.FormulationHandler.Preview)
			api.POST("/formulations", cfg.FormulationHandler.Create)
			api.GET("/formulations", cfg.FormulationHandler.List)
			api.GET("/formulations/:id", cfg.FormulationHandler.Get)
			api.POST("/formulations/:id/regenerate", cfg.FormulationHandler.Regenerate)
			api.POST("/formulations/:id/finalize", cfg.FormulationHandler.Finalize)
			api.POST("/formulations/:id/unfinalize", cfg.FormulationHandler.Unfinalize)
			api.POST("/formulations/:id/archive", cfg.FormulationHandler.Archive)
			api.DELETE("/formulations/:id", cfg.FormulationHandler.Delete)
		}
	}

	return r
}
