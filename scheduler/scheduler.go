package scheduler

import (
	"workshop-inventory/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic low-stock report. The job is strictly
// read-only; reorder drafts are only ever generated on demand.
type Scheduler struct {
	cron    *cron.Cron
	reorder *service.ReorderService
	spec    string
	log     *zap.Logger
}

func New(reorder *service.ReorderService, spec string, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{cron: cron.New(), reorder: reorder, spec: spec, log: log}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.reportLowStock); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", zap.String("spec", s.spec))
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) reportLowStock() {
	records, err := s.reorder.ScanLowStock()
	if err != nil {
		s.log.Error("low-stock scan failed", zap.Error(err))
		return
	}

	low, out := 0, 0
	for _, rec := range records {
		if rec.Quantity <= 0 {
			out++
		} else {
			low++
		}
	}
	s.log.Info("low-stock report",
		zap.Int("low_stock", low),
		zap.Int("out_of_stock", out),
	)
}
