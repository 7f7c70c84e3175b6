package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
)

// CronManager manages all scheduled maintenance jobs
type CronManager struct {
	cron  *cron.Cron
	store database.Storage
}

// NewCronManager creates a new cron manager
func NewCronManager(store database.Storage) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:  c,
		store: store,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every 30 minutes: fail pending payment orders the gateway abandoned
	_, err := m.cron.AddFunc("0 */30 * * * *", func() {
		m.runJob("expire_stale_payments", m.ExpireStalePayments)
	})
	if err != nil {
		return err
	}

	// Hourly: prune expired entries from the token blacklist
	_, err = m.cron.AddFunc("0 0 * * * *", func() {
		m.runJob("cleanup_expired_tokens", m.CleanupExpiredTokens)
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// runJob executes one job and records its outcome.
func (m *CronManager) runJob(name string, job func() (string, error)) {
	started := time.Now()
	log.Printf("[cron] %s started", name)

	message, err := job()

	completed := time.Now()
	entry := &model.CronJobLog{
		JobName:     name,
		Status:      "completed",
		StartedAt:   started,
		CompletedAt: &completed,
		Duration:    int(completed.Sub(started).Milliseconds()),
		Message:     message,
	}
	if err != nil {
		entry.Status = "failed"
		entry.ErrorMsg = err.Error()
		log.Printf("[cron] %s failed: %v", name, err)
	} else {
		log.Printf("[cron] %s completed: %s", name, message)
	}

	if logErr := m.store.RecordCronRun(entry); logErr != nil {
		log.Printf("[cron] failed to record %s run: %v", name, logErr)
	}
}
