package store

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/tauasu/booking-app/models"
	"github.com/tauasu/booking-app/realtime"
)

// fanOutLocked generates one notification per registered user except the
// actor. A failed notification write is logged and skipped: the booking
// mutation already succeeded and must not be rolled back for it.
func (s *Store) fanOutLocked(event string, booking models.Booking, actor *models.User) {
	actorName := "Система"
	actorUsername := ""
	if actor != nil {
		actorName = actor.Name()
		actorUsername = actor.Username
	}

	var message string
	when := booking.DateTime.Format("02.01.2006 15:04")
	switch event {
	case models.NotificationBookingCreated:
		message = fmt.Sprintf("%s создал бронирование для %s на %s", actorName, booking.ClientName, when)
	case models.NotificationBookingClosed:
		message = fmt.Sprintf("%s закрыл бронирование для %s на %s", actorName, booking.ClientName, when)
	default:
		return
	}

	now := time.Now()
	var batch []models.Notification
	for _, u := range s.users {
		if u.Username == actorUsername {
			continue
		}
		batch = append(batch, models.Notification{
			Type:        event,
			BookingID:   booking.ID,
			Message:     message,
			ForUsername: u.Username,
			CreatedAt:   now,
		})
	}

	saved, err := s.gw.InsertNotifications(batch)
	if err != nil {
		log.Printf("Error persisting notifications for booking %d: %v", booking.ID, err)
		return
	}
	s.notifications = append(saved, s.notifications...)

	realtime.BroadcastNotifications(saved)
}

// NotificationsFor returns the records addressed to a user (or to "all"),
// newest first.
func (s *Store) NotificationsFor(username string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Notification
	for _, n := range s.notifications {
		if n.ForUsername == username || n.ForUsername == models.NotificationForAll {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// MarkNotificationRead sets read on exactly one record; no-op if already
// read.
func (s *Store) MarkNotificationRead(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID != id {
			continue
		}
		if s.notifications[i].Read {
			return nil
		}
		if err := s.gw.MarkNotificationRead(id); err != nil {
			return err
		}
		s.notifications[i].Read = true
		return nil
	}
	return ErrNotificationNotFound
}

// MarkAllNotificationsRead flips every unread record visible to the user.
func (s *Store) MarkAllNotificationsRead(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gw.MarkAllNotificationsRead(username); err != nil {
		return err
	}
	for i := range s.notifications {
		n := &s.notifications[i]
		if n.Read {
			continue
		}
		if n.ForUsername == username || n.ForUsername == models.NotificationForAll {
			n.Read = true
		}
	}
	return nil
}

// UnreadCount is a convenience for the bell badge.
func (s *Store) UnreadCount(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications {
		if n.Read {
			continue
		}
		if n.ForUsername == username || n.ForUsername == models.NotificationForAll {
			count++
		}
	}
	return count
}
