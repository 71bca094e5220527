package store

import (
	"log"
	"sync"
	"time"

	"github.com/tauasu/booking-app/models"
	"github.com/tauasu/booking-app/realtime"
)

// DefaultSyncInterval is how often the change feed is polled.
var DefaultSyncInterval = 500 * time.Millisecond

// Subscription is one active watch on the bookings change feed. The
// payload of a change is irrelevant: any insert/update/delete triggers a
// full refetch-and-replace on the subscriber side.
type Subscription struct {
	gw       *Gateway
	interval time.Duration
	handler  func()
	stopChan chan struct{}
	stopOnce sync.Once
}

// Subscribe starts polling db_changes for unprocessed bookings rows and
// invokes handler whenever at least one is found. Rows are marked
// processed inside a transaction so concurrent pollers do not double
// deliver.
func (g *Gateway) Subscribe(interval time.Duration, handler func()) *Subscription {
	sub := &Subscription{
		gw:       g,
		interval: interval,
		handler:  handler,
		stopChan: make(chan struct{}),
	}
	go sub.run()
	return sub
}

// Stop tears down the subscription. Safe to call more than once.
func (s *Subscription) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

func (s *Subscription) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.drainChanges() {
				s.handler()
			}
		case <-s.stopChan:
			return
		}
	}
}

// drainChanges consumes pending change rows, reporting whether any were
// found. Errors are logged and leave the rows for the next tick.
func (s *Subscription) drainChanges() bool {
	var changes []models.DBChange

	tx := s.gw.DB.Begin()
	if tx.Error != nil {
		log.Printf("Error opening change feed transaction: %v", tx.Error)
		return false
	}

	if err := tx.Where("table_name = ? AND processed = ?", "bookings", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		log.Printf("Error fetching changes: %v", err)
		return false
	}

	if len(changes) == 0 {
		tx.Rollback()
		return false
	}

	ids := make([]uint, 0, len(changes))
	for _, change := range changes {
		ids = append(ids, change.ID)
	}
	if err := tx.Model(&models.DBChange{}).
		Where("id IN ?", ids).
		Update("processed", true).Error; err != nil {
		tx.Rollback()
		log.Printf("Error marking changes as processed: %v", err)
		return false
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		log.Printf("Error committing change feed transaction: %v", err)
		return false
	}

	log.Printf("Processed %d booking change(s)", len(changes))
	return true
}

// StartSync establishes the realtime subscription, tearing down any prior
// handle first so events are never delivered twice. Idempotent.
func (s *Store) StartSync() {
	s.mu.Lock()
	if s.sub != nil {
		s.sub.Stop()
		s.sub = nil
	}
	s.sub = s.gw.Subscribe(DefaultSyncInterval, func() {
		if err := s.Refresh(); err != nil {
			log.Printf("Error refreshing after change event: %v", err)
			return
		}
		realtime.BroadcastBookingsRefreshed(len(s.SortedBookings()))
	})
	s.mu.Unlock()
}

// StopSync drops the active subscription, if any.
func (s *Store) StopSync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub != nil {
		s.sub.Stop()
		s.sub = nil
	}
}
