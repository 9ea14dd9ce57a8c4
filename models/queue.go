package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Queue entry statuses. 'completed' and 'cancelled' are terminal.
const (
	QueueStatusWaiting   = "waiting"
	QueueStatusArrived   = "arrived"
	QueueStatusInService = "in-service"
	QueueStatusCompleted = "completed"
	QueueStatusCancelled = "cancelled"
)

type QueueEntry struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`

	TokenNumber string     `gorm:"index;not null" json:"tokenNumber"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"customerId"`
	ServiceID   *uuid.UUID `gorm:"type:uuid;index" json:"serviceId,omitempty"`
	StaffID     *uuid.UUID `gorm:"type:uuid;index" json:"staffId,omitempty"`

	Status string `gorm:"type:varchar(20);index;not null;default:'waiting'" json:"status"`

	// 1-based rank among waiting/arrived entries of the salon; 0 once the
	// entry has left the line.
	QueuePosition int `gorm:"not null;default:0" json:"queuePosition"`

	CreatedAt   time.Time  `json:"createdAt"`
	ArrivedAt   *time.Time `json:"arrivedAt,omitempty"`
	ServedAt    *time.Time `json:"servedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (q *QueueEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return
}

// InLine reports whether the entry still occupies a queue position.
func (q *QueueEntry) InLine() bool {
	return q.Status == QueueStatusWaiting || q.Status == QueueStatusArrived
}

// Terminal reports whether no further transition is allowed.
func (q *QueueEntry) Terminal() bool {
	return q.Status == QueueStatusCompleted || q.Status == QueueStatusCancelled
}

// QueueCounter holds the last issued token number for a salon on a given
// day. The row is incremented atomically so concurrent joins never share a
// token number.
type QueueCounter struct {
	SalonID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Day        string    `gorm:"type:varchar(10);primaryKey"` // YYYY-MM-DD, salon-local
	LastNumber int       `gorm:"not null;default:0"`
}
