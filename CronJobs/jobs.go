package CronJobs

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"Vistoria/Aggregation"
	"Vistoria/Checklist"
	"Vistoria/Controllers"
	"Vistoria/Models"
)

// Scheduler runs the background maintenance jobs: hourly draft-store GC and
// a daily active-anomaly summary.
type Scheduler struct {
	cronScheduler *cron.Cron
	db            *gorm.DB
	drafts        *Checklist.DraftStore
}

func NewScheduler(db *gorm.DB, drafts *Checklist.DraftStore) *Scheduler {
	return &Scheduler{
		cronScheduler: cron.New(cron.WithSeconds()),
		db:            db,
		drafts:        drafts,
	}
}

// Start registers and launches the jobs.
func (s *Scheduler) Start() error {
	if _, err := s.cronScheduler.AddFunc("0 0 * * * *", func() {
		s.drafts.RunGC()
	}); err != nil {
		return fmt.Errorf("error scheduling draft GC job: %w", err)
	}

	if _, err := s.cronScheduler.AddFunc("0 0 6 * * *", func() {
		s.logAnomalySummary()
	}); err != nil {
		return fmt.Errorf("error scheduling anomaly summary job: %w", err)
	}

	s.cronScheduler.Start()
	return nil
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.cronScheduler.Stop()
}

func (s *Scheduler) logAnomalySummary() {
	rows, err := Controllers.FetchReportRows(s.db)
	if err != nil {
		log.Printf("Anomaly summary failed: %v", err)
		return
	}
	var statuses []Models.AnomalyStatus
	if err := s.db.Find(&statuses).Error; err != nil {
		log.Printf("Anomaly summary failed: %v", err)
		return
	}

	report := Aggregation.Report(rows, statuses, Aggregation.FilterActive)
	total := 0
	for _, entry := range report {
		total += entry.TotalProblemas
	}
	log.Printf("Anomaly summary: %d active problems across %d vehicles", total, len(report))
}
