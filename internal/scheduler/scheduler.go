// Package scheduler runs the periodic background jobs of the backend. The only
// job today is the low-stock scan that keeps purchasing ahead of the mill.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/feedmill/feedmill-backend/internal/platform/logger"
	"github.com/feedmill/feedmill-backend/internal/platform/metrics"
	"github.com/feedmill/feedmill-backend/internal/services"
	"github.com/feedmill/feedmill-backend/internal/utils"
)

type Scheduler struct {
	cron      *cron.Cron
	materials services.MaterialService
	log       *logger.Logger
	spec      string
}

// New builds the scheduler; an empty spec falls back to the LOW_STOCK_CRON
// environment variable, default daily at 06:00.
func New(materials services.MaterialService, baseLog *logger.Logger, spec string) *Scheduler {
	if spec == "" {
		spec = utils.GetEnv("LOW_STOCK_CRON", "0 6 * * *", baseLog)
	}
	return &Scheduler{
		cron:      cron.New(),
		materials: materials,
		log:       baseLog.With("component", "Scheduler"),
		spec:      spec,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.ScanLowStock); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", "low_stock_cron", s.spec)
	return nil
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// ScanLowStock logs every material at or below its reorder level and updates
// the low-stock gauge. Also invoked directly at startup.
func (s *Scheduler) ScanLowStock() {
	low, err := s.materials.ListLowStock(context.Background())
	if err != nil {
		s.log.Error("low stock scan failed", "error", err)
		return
	}
	metrics.LowStockMaterials.Set(float64(len(low)))
	for _, m := range low {
		s.log.Warn("material below reorder level",
			"material_id", m.ID.String(),
			"name", m.Name,
			"in_stock_kg", m.InStockKg,
			"min_stock_kg", m.MinStockKg,
		)
	}
	if len(low) == 0 {
		s.log.Debug("low stock scan clean")
	}
}
