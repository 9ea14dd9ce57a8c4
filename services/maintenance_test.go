package services

import (
	"testing"
	"time"

	"github.com/shravan777666/auras-backend/models"
	"github.com/shravan777666/auras-backend/utils"
)

func TestMaintenanceRunOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	salon := seedSalon(t, db, "Glow Studio")
	customer := seedCustomer(t, db)

	yesterday := time.Date(2025, 6, 13, 18, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return yesterday }
	stale := mustJoin(t, svc, salon.ID, customer.ID)

	today := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today }
	fresh := mustJoin(t, svc, salon.ID, customer.ID)

	maintenance := NewMaintenance(db)
	maintenance.now = func() time.Time { return today }

	if err := maintenance.RunOnce(); err != nil {
		t.Fatalf("run once: %v", err)
	}

	var reloadedStale models.QueueEntry
	if err := db.First(&reloadedStale, "id = ?", stale.ID).Error; err != nil {
		t.Fatalf("reload stale: %v", err)
	}
	if reloadedStale.Status != models.QueueStatusCancelled {
		t.Fatalf("stale status = %q, want cancelled", reloadedStale.Status)
	}
	if reloadedStale.QueuePosition != 0 {
		t.Fatalf("stale position = %d, want 0", reloadedStale.QueuePosition)
	}

	var reloadedFresh models.QueueEntry
	if err := db.First(&reloadedFresh, "id = ?", fresh.ID).Error; err != nil {
		t.Fatalf("reload fresh: %v", err)
	}
	if reloadedFresh.Status != models.QueueStatusWaiting {
		t.Fatalf("fresh status = %q, want waiting", reloadedFresh.Status)
	}
	// The survivor was behind the stale entry, so the close-out must pull
	// it back to the front of the line.
	if reloadedFresh.QueuePosition != 1 {
		t.Fatalf("fresh position = %d, want 1", reloadedFresh.QueuePosition)
	}
}

func TestMaintenanceRenumbersSurvivors(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	salon := seedSalon(t, db, "Glow Studio")
	customer := seedCustomer(t, db)

	yesterday := time.Date(2025, 6, 13, 18, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return yesterday }
	mustJoin(t, svc, salon.ID, customer.ID)
	mustJoin(t, svc, salon.ID, customer.ID)

	today := time.Date(2025, 6, 14, 0, 1, 0, 0, time.UTC)
	svc.now = func() time.Time { return today }
	mustJoin(t, svc, salon.ID, customer.ID) // position 3
	mustJoin(t, svc, salon.ID, customer.ID) // position 4

	maintenance := NewMaintenance(db)
	maintenance.now = func() time.Time { return today }
	if err := maintenance.RunOnce(); err != nil {
		t.Fatalf("run once: %v", err)
	}

	positions := linePositions(t, db, salon.ID)
	if len(positions) != 2 {
		t.Fatalf("line length = %d, want 2", len(positions))
	}
	for i, p := range positions {
		if p != i+1 {
			t.Fatalf("positions after maintenance = %v, want contiguous from 1", positions)
		}
	}
}

func TestMaintenancePurgesOldCounters(t *testing.T) {
	db := newTestDB(t)
	salon := seedSalon(t, db, "Glow Studio")

	today := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	old := models.QueueCounter{SalonID: salon.ID, Day: utils.DayKey(today.AddDate(0, 0, -10)), LastNumber: 12}
	recent := models.QueueCounter{SalonID: salon.ID, Day: utils.DayKey(today.AddDate(0, 0, -2)), LastNumber: 3}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed old counter: %v", err)
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("seed recent counter: %v", err)
	}

	maintenance := NewMaintenance(db)
	maintenance.now = func() time.Time { return today }

	if err := maintenance.RunOnce(); err != nil {
		t.Fatalf("run once: %v", err)
	}

	var counters []models.QueueCounter
	if err := db.Find(&counters).Error; err != nil {
		t.Fatalf("load counters: %v", err)
	}
	if len(counters) != 1 || counters[0].Day != recent.Day {
		t.Fatalf("counters after purge = %+v, want only %s", counters, recent.Day)
	}
}
