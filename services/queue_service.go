package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shravan777666/auras-backend/models"
	"github.com/shravan777666/auras-backend/utils"
)

// Placeholder wait estimates until real service-duration data is collected.
const (
	customerWaitPerPosition = 15 * time.Minute
	salonWaitPerCustomer    = 30 * time.Minute
)

var inLineStatuses = []string{models.QueueStatusWaiting, models.QueueStatusArrived}

// QueueService owns token issuance, position bookkeeping and status
// transitions for salon walk-in queues. Every mutation runs inside a single
// database transaction so positions and token numbers stay consistent under
// concurrent requests.
type QueueService struct {
	db       *gorm.DB
	notifier *Notifier
	now      func() time.Time
}

func NewQueueService(db *gorm.DB, notifier *Notifier) *QueueService {
	return &QueueService{db: db, notifier: notifier, now: time.Now}
}

// TokenPrefix derives the ticket prefix from the salon name: first three
// letters uppercased, "Q" when the name gives nothing usable.
func TokenPrefix(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Q"
	}
	runes := []rune(strings.ToUpper(trimmed))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	prefix := strings.TrimSpace(string(runes))
	if prefix == "" {
		return "Q"
	}
	return prefix
}

// nextTokenNumber bumps the per-salon per-day counter row atomically and
// formats the ticket. The upsert guarantees uniqueness even when two joins
// race on the same salon.
func (s *QueueService) nextTokenNumber(tx *gorm.DB, salon *models.Salon, day string) (string, error) {
	var n int
	err := tx.Raw(`
		INSERT INTO queue_counters (salon_id, day, last_number) VALUES (?, ?, 1)
		ON CONFLICT (salon_id, day) DO UPDATE SET last_number = queue_counters.last_number + 1
		RETURNING last_number`, salon.ID, day).Scan(&n).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", TokenPrefix(salon.Name), n), nil
}

type JoinInput struct {
	SalonID    uuid.UUID
	CustomerID uuid.UUID
	ServiceID  *uuid.UUID
}

// Join creates a waiting entry at the back of the salon's line.
func (s *QueueService) Join(input JoinInput) (*models.QueueEntry, error) {
	var entry *models.QueueEntry
	var customer models.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var salon models.Salon
		if err := tx.First(&salon, "id = ?", input.SalonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSalonNotFound
			}
			return err
		}

		if err := tx.First(&customer, "id = ?", input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		if input.ServiceID != nil {
			var service models.Service
			if err := tx.First(&service, "salon_id = ? AND id = ?", input.SalonID, *input.ServiceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrServiceNotFound
				}
				return err
			}
		}

		now := s.now()
		token, err := s.nextTokenNumber(tx, &salon, utils.DayKey(now))
		if err != nil {
			return err
		}

		var inLine int64
		if err := tx.Model(&models.QueueEntry{}).
			Where("salon_id = ? AND status IN ?", input.SalonID, inLineStatuses).
			Count(&inLine).Error; err != nil {
			return err
		}

		entry = &models.QueueEntry{
			SalonID:       input.SalonID,
			TokenNumber:   token,
			CustomerID:    input.CustomerID,
			ServiceID:     input.ServiceID,
			Status:        models.QueueStatusWaiting,
			QueuePosition: int(inLine) + 1,
			CreatedAt:     now,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.TokenIssued(entry, customer.Phone)
	return entry, nil
}

// QueueSnapshot is the salon dashboard view of the line.
type QueueSnapshot struct {
	CurrentService  *models.QueueEntry  `json:"currentService"`
	UpcomingTokens  []models.QueueEntry `json:"upcomingTokens"`
	TotalWaiting    int64               `json:"totalWaiting"`
	CompletedTokens []models.QueueEntry `json:"completedTokens"`
}

// Status returns the dashboard snapshot: who is being served, the next five
// entries by position, the waiting count and recently completed tokens.
func (s *QueueService) Status(salonID uuid.UUID) (*QueueSnapshot, error) {
	if err := s.salonExists(salonID); err != nil {
		return nil, err
	}

	snap := &QueueSnapshot{UpcomingTokens: []models.QueueEntry{}, CompletedTokens: []models.QueueEntry{}}

	var current models.QueueEntry
	err := s.db.First(&current, "salon_id = ? AND status = ?", salonID, models.QueueStatusInService).Error
	if err == nil {
		snap.CurrentService = &current
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.db.
		Where("salon_id = ? AND status IN ?", salonID, inLineStatuses).
		Order("queue_position asc").
		Limit(5).
		Find(&snap.UpcomingTokens).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.QueueEntry{}).
		Where("salon_id = ? AND status IN ?", salonID, inLineStatuses).
		Count(&snap.TotalWaiting).Error; err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-10 * time.Minute)
	if err := s.db.
		Where("salon_id = ? AND status = ? AND completed_at > ?", salonID, models.QueueStatusCompleted, cutoff).
		Order("completed_at desc").
		Limit(3).
		Find(&snap.CompletedTokens).Error; err != nil {
		return nil, err
	}

	return snap, nil
}

// List pages through a salon's queue history, optionally filtered by status.
func (s *QueueService) List(salonID uuid.UUID, status string, page, limit int) ([]models.QueueEntry, int64, error) {
	if err := s.salonExists(salonID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&models.QueueEntry{}).Where("salon_id = ?", salonID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := []models.QueueEntry{}
	if err := query.
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Update applies a salon-side transition to the entry holding tokenNumber.
func (s *QueueService) Update(salonID uuid.UUID, tokenNumber string, action QueueAction, staffID *uuid.UUID) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	var called bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("salon_id = ? AND token_number = ?", salonID, tokenNumber).
			Order("created_at desc").
			First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return err
		}

		if entry.Terminal() {
			return ErrEntryFinished
		}

		now := s.now()
		former := entry.QueuePosition

		switch action {
		case ActionNext:
			if !entry.InLine() {
				return ErrNotInLine
			}
			if staffID != nil {
				var staff models.Staff
				if err := tx.First(&staff, "salon_id = ? AND id = ?", salonID, *staffID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrStaffNotFound
					}
					return err
				}
			}
			// Whoever is currently being served is done.
			if err := tx.Model(&models.QueueEntry{}).
				Where("salon_id = ? AND status = ?", salonID, models.QueueStatusInService).
				Updates(map[string]interface{}{
					"status":       models.QueueStatusCompleted,
					"completed_at": now,
				}).Error; err != nil {
				return err
			}
			entry.Status = models.QueueStatusInService
			entry.ServedAt = &now
			entry.StaffID = staffID
			entry.QueuePosition = 0
			called = true

		case ActionSkip:
			if !entry.InLine() {
				return ErrNotInLine
			}
			entry.Status = models.QueueStatusCancelled
			entry.QueuePosition = 0

		case ActionComplete:
			entry.Status = models.QueueStatusCompleted
			entry.CompletedAt = &now
			entry.QueuePosition = 0

		default:
			return ErrInvalidAction
		}

		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		return closeGap(tx, salonID, former)
	})
	if err != nil {
		return nil, err
	}

	if called {
		var customer models.User
		if err := s.db.First(&customer, "id = ?", entry.CustomerID).Error; err == nil {
			s.notifier.NowServing(&entry, customer.Phone)
		} else {
			log.Printf("queue: lookup customer %s for call-up notice: %v", entry.CustomerID, err)
		}
	}
	return &entry, nil
}

// closeGap shifts every in-line entry behind the vacated position up by one,
// keeping positions contiguous from 1.
func closeGap(tx *gorm.DB, salonID uuid.UUID, formerPosition int) error {
	if formerPosition <= 0 {
		return nil
	}
	return tx.Model(&models.QueueEntry{}).
		Where("salon_id = ? AND status IN ? AND queue_position > ?", salonID, inLineStatuses, formerPosition).
		UpdateColumn("queue_position", gorm.Expr("queue_position - 1")).Error
}

// renumberLine reassigns contiguous positions 1..N to a salon's in-line
// entries, preserving their relative order.
func renumberLine(tx *gorm.DB, salonID uuid.UUID) error {
	var entries []models.QueueEntry
	if err := tx.
		Where("salon_id = ? AND status IN ?", salonID, inLineStatuses).
		Order("queue_position asc").
		Find(&entries).Error; err != nil {
		return err
	}
	for i, e := range entries {
		if e.QueuePosition == i+1 {
			continue
		}
		if err := tx.Model(&models.QueueEntry{}).
			Where("id = ?", e.ID).
			UpdateColumn("queue_position", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}

// CheckIn marks the customer as physically present. Idempotent on entries
// already arrived or cancelled; rejected once service has started or finished.
func (s *QueueService) CheckIn(tokenNumber string) (*models.QueueEntry, error) {
	var entry models.QueueEntry

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("token_number = ?", tokenNumber).
			Order("created_at desc").
			First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return err
		}

		switch entry.Status {
		case models.QueueStatusWaiting:
			now := s.now()
			entry.Status = models.QueueStatusArrived
			entry.ArrivedAt = &now
			return tx.Save(&entry).Error
		case models.QueueStatusArrived, models.QueueStatusCancelled:
			// Repeat scans are accepted without a new transition.
			return nil
		default:
			return ErrAlreadyCheckedIn
		}
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ByToken is the public poll endpoint's lookup, newest entry first since
// token numbers repeat across days.
func (s *QueueService) ByToken(tokenNumber string) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := s.db.
		Where("token_number = ?", tokenNumber).
		Order("created_at desc").
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// CustomerView is what a waiting customer polls while away from the salon.
type CustomerView struct {
	Entry                *models.QueueEntry `json:"entry"`
	EstimatedWaitMinutes int                `json:"estimatedWaitMinutes"`
	CurrentServing       string             `json:"currentServing,omitempty"`
}

// CustomerStatus returns the entry plus a rough wait estimate and the token
// currently being served at the salon.
func (s *QueueService) CustomerStatus(tokenNumber string) (*CustomerView, error) {
	entry, err := s.ByToken(tokenNumber)
	if err != nil {
		return nil, err
	}

	view := &CustomerView{Entry: entry}
	if entry.InLine() {
		view.EstimatedWaitMinutes = entry.QueuePosition * int(customerWaitPerPosition.Minutes())
	}

	var current models.QueueEntry
	err = s.db.First(&current, "salon_id = ? AND status = ?", entry.SalonID, models.QueueStatusInService).Error
	if err == nil {
		view.CurrentServing = current.TokenNumber
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return view, nil
}

// PublicSnapshot is the unauthenticated salon view: tokens only, no
// customer identifiers.
type PublicSnapshot struct {
	SalonID              uuid.UUID `json:"salonId"`
	SalonName            string    `json:"salonName"`
	CurrentServing       string    `json:"currentServing,omitempty"`
	UpcomingTokens       []string  `json:"upcomingTokens"`
	TotalWaiting         int64     `json:"totalWaiting"`
	EstimatedWaitMinutes int       `json:"estimatedWaitMinutes"`
}

// SalonSnapshot is the public subset of Status.
func (s *QueueService) SalonSnapshot(salonID uuid.UUID) (*PublicSnapshot, error) {
	var salon models.Salon
	if err := s.db.First(&salon, "id = ?", salonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalonNotFound
		}
		return nil, err
	}

	snap, err := s.Status(salonID)
	if err != nil {
		return nil, err
	}

	public := &PublicSnapshot{
		SalonID:              salon.ID,
		SalonName:            salon.Name,
		UpcomingTokens:       []string{},
		TotalWaiting:         snap.TotalWaiting,
		EstimatedWaitMinutes: int(snap.TotalWaiting) * int(salonWaitPerCustomer.Minutes()),
	}
	if snap.CurrentService != nil {
		public.CurrentServing = snap.CurrentService.TokenNumber
	}
	for _, e := range snap.UpcomingTokens {
		public.UpcomingTokens = append(public.UpcomingTokens, e.TokenNumber)
	}
	return public, nil
}

func (s *QueueService) salonExists(salonID uuid.UUID) error {
	var salon models.Salon
	if err := s.db.Select("id").First(&salon, "id = ?", salonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSalonNotFound
		}
		return err
	}
	return nil
}
