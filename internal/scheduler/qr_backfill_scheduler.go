package scheduler

import (
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// backfillBatchSize caps how many tables one run touches.
const backfillBatchSize = 500

// QRBackfiller fills the stored menu URL of tables that never had a QR code
// generated.
type QRBackfiller interface {
	BackfillQRCodeURLs(limit int) (int, error)
}

// QRBackfillScheduler runs the QR URL backfill on a cron schedule.
type QRBackfillScheduler struct {
	cron       *cron.Cron
	spec       string
	backfiller QRBackfiller
}

func NewQRBackfillScheduler(backfiller QRBackfiller, spec string) *QRBackfillScheduler {
	return &QRBackfillScheduler{
		cron:       cron.New(),
		spec:       spec,
		backfiller: backfiller,
	}
}

// RunOnce backfills until a batch comes back short and returns the number of
// tables updated.
func (s *QRBackfillScheduler) RunOnce() int {
	total := 0
	for {
		updated, err := s.backfiller.BackfillQRCodeURLs(backfillBatchSize)
		if err != nil {
			logger.Error("Failed to backfill table QR URLs", err)
			return total
		}
		total += updated
		if updated < backfillBatchSize {
			return total
		}
	}
}

// Start registers the job and starts the cron runner.
func (s *QRBackfillScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled QR URL backfill")
		updated := s.RunOnce()
		logger.Info("QR URL backfill finished", map[string]interface{}{
			"updated": updated,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for QR URL backfill", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("QR backfill scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop waits for a running job to finish.
func (s *QRBackfillScheduler) Stop() {
	logger.Info("Stopping QR backfill scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("QR backfill scheduler stopped")
}
