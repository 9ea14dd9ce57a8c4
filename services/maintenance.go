package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/shravan777666/auras-backend/models"
	"github.com/shravan777666/auras-backend/utils"
)

const counterRetentionDays = 7

// Maintenance closes out stale queue entries and purges old token counters
// shortly after midnight.
type Maintenance struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
}

func NewMaintenance(db *gorm.DB) *Maintenance {
	return &Maintenance{db: db, cron: cron.New(), now: time.Now}
}

func (m *Maintenance) Start() {
	m.cron.AddFunc("5 0 * * *", func() {
		if err := m.RunOnce(); err != nil {
			log.Printf("queue maintenance failed: %v", err)
		}
	})
	m.cron.Start()
	log.Println("Queue maintenance scheduler started")
}

func (m *Maintenance) Stop() {
	m.cron.Stop()
}

// RunOnce cancels entries still waiting from previous days and deletes
// counter rows past retention.
func (m *Maintenance) RunOnce() error {
	now := m.now()
	midnight := utils.BeginningOfDay(now)

	err := m.db.Transaction(func(tx *gorm.DB) error {
		var salonIDs []uuid.UUID
		if err := tx.Model(&models.QueueEntry{}).
			Distinct("salon_id").
			Where("status IN ? AND created_at < ?", inLineStatuses, midnight).
			Pluck("salon_id", &salonIDs).Error; err != nil {
			return err
		}
		if len(salonIDs) == 0 {
			return nil
		}

		result := tx.Model(&models.QueueEntry{}).
			Where("status IN ? AND created_at < ?", inLineStatuses, midnight).
			Updates(map[string]interface{}{
				"status":         models.QueueStatusCancelled,
				"queue_position": 0,
			})
		if result.Error != nil {
			return result.Error
		}
		log.Printf("queue maintenance: closed out %d stale entries", result.RowsAffected)

		// Same-day entries behind the cancelled ones keep their old ranks,
		// so each touched salon's line is renumbered back to 1..N.
		for _, salonID := range salonIDs {
			if err := renumberLine(tx, salonID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	cutoff := utils.DayKey(now.AddDate(0, 0, -counterRetentionDays))
	if err := m.db.Where("day < ?", cutoff).Delete(&models.QueueCounter{}).Error; err != nil {
		return err
	}
	return nil
}
