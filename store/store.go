package store

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tauasu/booking-app/models"
	"github.com/tauasu/booking-app/realtime"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleWaiter = "waiter"
	RoleCook   = "cook"

	// FilterAll is the sentinel that disables a filter dimension.
	FilterAll = "all"
)

// Store owns the canonical in-memory booking collection and every view
// derived from it. All mutations go remote-first: the gateway write is
// awaited before the local collection is touched, so a caller never
// observes a local change that failed to persist.
type Store struct {
	mu sync.Mutex
	gw *Gateway

	zones         []models.Zone
	bookings      []models.Booking
	users         []models.User
	notifications []models.Notification
	notes         map[string]string
	customers     []Customer

	sub *Subscription
}

func New(db *gorm.DB) *Store {
	return &Store{
		gw:    NewGateway(db),
		notes: make(map[string]string),
	}
}

// Gateway exposes the persistence adapter, mainly for wiring in main.
func (s *Store) Gateway() *Gateway {
	return s.gw
}

// Start performs the initial load: user registry, zone catalog, bookings,
// notifications and the notes side-table.
func (s *Store) Start() error {
	users, err := s.gw.FetchUsers()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return s.Refresh()
}

// Refresh re-fetches everything the reconciler cares about and replaces
// the local collections wholesale. Failures leave the previous snapshot
// in place.
func (s *Store) Refresh() error {
	bookings, err := s.gw.FetchBookings()
	if err != nil {
		return err
	}
	zones, err := s.gw.FetchZones()
	if err != nil {
		return err
	}
	notifs, err := s.gw.FetchNotifications()
	if err != nil {
		return err
	}
	notes, err := s.gw.FetchNotes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = bookings
	s.zones = zones
	s.notifications = notifs
	s.notes = make(map[string]string, len(notes))
	for _, n := range notes {
		s.notes[n.PhoneNumber] = n.Notes
	}
	s.sortLocked()
	s.rebuildCustomersLocked()
	return nil
}

// Login validates credentials against the static registry. A successful
// login triggers a fresh fetch and (re)establishes the realtime
// subscription, per the session lifecycle.
func (s *Store) Login(username, password string) (*models.User, error) {
	s.mu.Lock()
	var user *models.User
	for i := range s.users {
		if s.users[i].Username == username {
			user = &s.users[i]
			break
		}
	}
	s.mu.Unlock()

	if user == nil {
		return nil, &NotAuthorizedError{Message: "invalid credentials"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, &NotAuthorizedError{Message: "invalid credentials"}
	}

	if err := s.Refresh(); err != nil {
		log.Printf("Error refreshing on login: %v", err)
	}
	s.StartSync()

	u := *user
	return &u, nil
}

// Logout tears down the realtime subscription.
func (s *Store) Logout() {
	s.StopSync()
}

func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) UserByUsername(username string) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Username == username {
			u := s.users[i]
			return &u, true
		}
	}
	return nil, false
}

// CreateBookingInput carries the submitted form fields. EndTime only
// participates in the start<end validation and is not persisted.
type CreateBookingInput struct {
	ZoneID      string
	ZoneName    string // name for the ad-hoc zone when ZoneID == "other"
	ClientName  string
	PhoneNumber string
	PersonCount int
	DateTime    time.Time
	EndTime     time.Time
	RentalCost  float64
	Prepayment  float64
	Menu        string
}

// CreateBooking validates, resolves the target zone, persists and only
// then inserts into the local collection, re-sorts, rebuilds the customer
// projection and fans out a creation notification.
func (s *Store) CreateBooking(in CreateBookingInput, actor *models.User) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateBookingInput(in); err != nil {
		return nil, err
	}
	if s.isZoneBookedLocked(in.ZoneID, in.DateTime, 0) {
		return nil, &ConflictError{ZoneID: in.ZoneID, Day: in.DateTime.Format("2006-01-02")}
	}

	zone, err := s.ensureZoneLocked(in.ZoneID, in.ZoneName)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		ZoneID:      zone.ID,
		ZoneType:    zone.Type,
		ClientName:  in.ClientName,
		PhoneNumber: in.PhoneNumber,
		PersonCount: in.PersonCount,
		DateTime:    in.DateTime,
		RentalCost:  in.RentalCost,
		Prepayment:  in.Prepayment,
	}
	if booking.PersonCount < 1 {
		booking.PersonCount = 1
	}
	if in.Menu != "" {
		menu := in.Menu
		booking.Menu = &menu
	}
	if actor != nil {
		createdBy := actor.Username
		booking.CreatedBy = &createdBy
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := s.gw.InsertBooking(&booking); err != nil {
		return nil, err
	}

	s.bookings = append(s.bookings, booking)
	s.sortLocked()
	s.rebuildCustomersLocked()
	s.fanOutLocked(models.NotificationBookingCreated, booking, actor)

	realtime.BroadcastBookingCreated(booking)
	log.Printf("Booking %d created for zone %s on %s", booking.ID, booking.ZoneID, booking.Day())
	b := booking
	return &b, nil
}

// BookingPatch is a sparse update: nil fields are left untouched.
type BookingPatch struct {
	ZoneID      *string
	ZoneName    *string
	ClientName  *string
	PhoneNumber *string
	PersonCount *int
	DateTime    *time.Time
	EndTime     *time.Time
	RentalCost  *float64
	Prepayment  *float64
	Menu        *string
}

// UpdateBooking persists only the changed fields, refreshes updatedAt and
// recomputes the customer projection over the full set so aggregate
// counts stay correct after a phone/zone/date change. Closed bookings are
// read-only for everyone: there is no reopen.
func (s *Store) UpdateBooking(id uint, patch BookingPatch, actor *models.User) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil, ErrBookingNotFound
	}
	current := s.bookings[idx]
	if current.Closed {
		return nil, &NotAuthorizedError{Message: "closed booking is read-only"}
	}

	if patch.ClientName != nil && strings.TrimSpace(*patch.ClientName) == "" {
		return nil, &ValidationError{Field: "clientName", Message: "is required"}
	}
	if patch.PhoneNumber != nil && strings.TrimSpace(*patch.PhoneNumber) == "" {
		return nil, &ValidationError{Field: "phoneNumber", Message: "is required"}
	}
	if patch.DateTime != nil && patch.EndTime != nil && !patch.DateTime.Before(*patch.EndTime) {
		return nil, &ValidationError{Field: "dateTime", Message: "must be before end time"}
	}

	targetZoneID := current.ZoneID
	targetZoneType := current.ZoneType
	if patch.ZoneID != nil {
		name := ""
		if patch.ZoneName != nil {
			name = *patch.ZoneName
		}
		zone, err := s.ensureZoneLocked(*patch.ZoneID, name)
		if err != nil {
			return nil, err
		}
		targetZoneID = zone.ID
		targetZoneType = zone.Type
	}
	targetDate := current.DateTime
	if patch.DateTime != nil {
		targetDate = *patch.DateTime
	}
	if s.isZoneBookedLocked(targetZoneID, targetDate, id) {
		return nil, &ConflictError{ZoneID: targetZoneID, Day: targetDate.Format("2006-01-02")}
	}

	now := time.Now()
	fields := map[string]interface{}{"updated_at": now}
	if patch.ZoneID != nil {
		fields["venue"] = targetZoneID
		fields["service_type"] = targetZoneType
		current.ZoneID = targetZoneID
		current.ZoneType = targetZoneType
	}
	if patch.ClientName != nil {
		fields["client_name"] = *patch.ClientName
		current.ClientName = *patch.ClientName
	}
	if patch.PhoneNumber != nil {
		fields["phone_number"] = *patch.PhoneNumber
		current.PhoneNumber = *patch.PhoneNumber
	}
	if patch.PersonCount != nil {
		fields["number_of_people"] = *patch.PersonCount
		current.PersonCount = *patch.PersonCount
	}
	if patch.DateTime != nil {
		fields["date_time"] = *patch.DateTime
		current.DateTime = *patch.DateTime
	}
	if patch.RentalCost != nil {
		fields["rental_price"] = *patch.RentalCost
		current.RentalCost = *patch.RentalCost
	}
	if patch.Prepayment != nil {
		fields["prepayment"] = *patch.Prepayment
		current.Prepayment = *patch.Prepayment
	}
	if patch.Menu != nil {
		if *patch.Menu == "" {
			fields["menu"] = nil
			current.Menu = nil
		} else {
			fields["menu"] = *patch.Menu
			menu := *patch.Menu
			current.Menu = &menu
		}
	}
	current.UpdatedAt = now

	if err := s.gw.UpdateBooking(id, fields); err != nil {
		return nil, err
	}

	s.bookings[idx] = current
	s.sortLocked()
	s.rebuildCustomersLocked()

	realtime.BroadcastBookingUpdated(current)
	b := current
	return &b, nil
}

// CloseBooking marks a booking closed, stamping closer identity and time,
// and fans out a closure notification. Already closed is a no-op.
func (s *Store) CloseBooking(id uint, actor *models.User) (*models.Booking, error) {
	if actor == nil {
		return nil, &NotAuthorizedError{Message: "closing requires an authenticated user"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil, ErrBookingNotFound
	}
	current := s.bookings[idx]
	if current.Closed {
		b := current
		return &b, nil
	}

	now := time.Now()
	closedBy := actor.Username
	fields := map[string]interface{}{
		"closed":     true,
		"closed_by":  closedBy,
		"closed_at":  now,
		"updated_at": now,
	}
	if err := s.gw.UpdateBooking(id, fields); err != nil {
		return nil, err
	}

	current.Closed = true
	current.ClosedBy = &closedBy
	current.ClosedAt = &now
	current.UpdatedAt = now
	s.bookings[idx] = current
	s.fanOutLocked(models.NotificationBookingClosed, current, actor)

	realtime.BroadcastBookingClosed(current)
	log.Printf("Booking %d closed by %s", id, actor.Username)
	b := current
	return &b, nil
}

// MarkViewed flips the per-role acknowledgment flag. Idempotent: a second
// call keeps the first timestamp. No notification is generated.
func (s *Store) MarkViewed(id uint, role string) (*models.Booking, error) {
	if role != RoleWaiter && role != RoleCook {
		return nil, &ValidationError{Field: "role", Message: fmt.Sprintf("must be %q or %q", RoleWaiter, RoleCook)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil, ErrBookingNotFound
	}
	current := s.bookings[idx]

	if (role == RoleWaiter && current.WaiterViewed) || (role == RoleCook && current.CookViewed) {
		b := current
		return &b, nil
	}

	now := time.Now()
	fields := map[string]interface{}{"updated_at": now}
	if role == RoleWaiter {
		fields["waiter_viewed"] = true
		fields["waiter_viewed_at"] = now
	} else {
		fields["cook_viewed"] = true
		fields["cook_viewed_at"] = now
	}
	if err := s.gw.UpdateBooking(id, fields); err != nil {
		return nil, err
	}

	if role == RoleWaiter {
		current.WaiterViewed = true
		current.WaiterViewedAt = &now
	} else {
		current.CookViewed = true
		current.CookViewedAt = &now
	}
	current.UpdatedAt = now
	s.bookings[idx] = current

	realtime.BroadcastBookingViewed(current, role)
	b := current
	return &b, nil
}

// DeleteBooking hard-deletes. A closed booking can only be deleted by an
// admin. The customer projection is recomputed; a phone number left with
// zero bookings drops out of the directory while its notes row survives.
func (s *Store) DeleteBooking(id uint, actor *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return ErrBookingNotFound
	}
	if s.bookings[idx].Closed && (actor == nil || actor.Role != models.RoleAdmin) {
		return &NotAuthorizedError{Message: "only an admin can delete a closed booking"}
	}

	if err := s.gw.DeleteBooking(id); err != nil {
		return err
	}

	s.bookings = append(s.bookings[:idx], s.bookings[idx+1:]...)
	s.rebuildCustomersLocked()

	realtime.BroadcastBookingDeleted(id)
	log.Printf("Booking %d deleted", id)
	return nil
}

// IsZoneBooked reports whether the zone already has a booking on the
// calendar day of at. Pure read, advisory only: two sessions can still
// race past it (eventual consistency, not locking).
func (s *Store) IsZoneBooked(zoneID string, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isZoneBookedLocked(zoneID, at, 0)
}

func (s *Store) isZoneBookedLocked(zoneID string, at time.Time, excludeID uint) bool {
	day := at.Format("2006-01-02")
	for i := range s.bookings {
		b := &s.bookings[i]
		if b.ID == excludeID && excludeID != 0 {
			continue
		}
		if b.ZoneID == zoneID && b.Day() == day {
			return true
		}
	}
	return false
}

// SortedBookings returns the collection ordered by dateTime ascending.
func (s *Store) SortedBookings() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// FilteredBookings filters by exact date portion and zone type; the
// sentinel "all" (or empty) disables a dimension. A booking whose zone is
// missing from the catalog is excluded, like the original view.
func (s *Store) FilteredBookings(dateFilter, zoneTypeFilter string) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for i := range s.bookings {
		b := s.bookings[i]
		zone, ok := s.zoneByIDLocked(b.ZoneID)
		if !ok {
			continue
		}
		if dateFilter != "" && dateFilter != FilterAll && b.Day() != dateFilter {
			continue
		}
		if zoneTypeFilter != "" && zoneTypeFilter != FilterAll && zone.Type != zoneTypeFilter {
			continue
		}
		out = append(out, b)
	}
	return out
}

// BookingsInDateRange returns bookings whose dateTime falls inside
// [start, end], feeding the analytics view.
func (s *Store) BookingsInDateRange(start, end time.Time) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for i := range s.bookings {
		b := s.bookings[i]
		if b.DateTime.Before(start) || b.DateTime.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (s *Store) BookingByID(id uint) (*models.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil, false
	}
	b := s.bookings[idx]
	return &b, true
}

// Zones returns the current catalog including runtime "other" zones.
func (s *Store) Zones() []models.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Zone, len(s.zones))
	copy(out, s.zones)
	return out
}

func (s *Store) ZoneByID(id string) (*models.Zone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.zoneByIDLocked(id)
	if !ok {
		return nil, false
	}
	zone := *z
	return &zone, true
}

func (s *Store) ZonesByType(zoneType string) []models.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()

	if zoneType == "" || zoneType == FilterAll {
		out := make([]models.Zone, len(s.zones))
		copy(out, s.zones)
		return out
	}
	var out []models.Zone
	for _, z := range s.zones {
		if z.Type == zoneType {
			out = append(out, z)
		}
	}
	return out
}

// EnsureZone resolves a zone id, synthesizing an ad-hoc zone when the
// special "other" marker is submitted. Exposed as its own step so the
// registry invariants are testable apart from booking creation.
func (s *Store) EnsureZone(zoneID, customName string) (*models.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, err := s.ensureZoneLocked(zoneID, customName)
	if err != nil {
		return nil, err
	}
	zone := *z
	return &zone, nil
}

func (s *Store) ensureZoneLocked(zoneID, customName string) (*models.Zone, error) {
	if zoneID != models.ZoneIDOther {
		z, ok := s.zoneByIDLocked(zoneID)
		if !ok {
			return nil, ErrZoneNotFound
		}
		return z, nil
	}
	if strings.TrimSpace(customName) == "" {
		return nil, &ValidationError{Field: "zoneName", Message: "is required for an ad-hoc zone"}
	}

	zone := models.Zone{
		ID:        fmt.Sprintf("other-%d", time.Now().UnixMilli()),
		Name:      customName,
		Type:      models.ZoneTypeOther,
		CreatedAt: time.Now(),
	}
	if err := s.gw.InsertZone(&zone); err != nil {
		return nil, err
	}
	s.zones = append(s.zones, zone)

	realtime.BroadcastZoneCreated(zone)
	log.Printf("Ad-hoc zone %s (%s) created", zone.ID, zone.Name)
	return &s.zones[len(s.zones)-1], nil
}

func (s *Store) zoneByIDLocked(id string) (*models.Zone, bool) {
	for i := range s.zones {
		if s.zones[i].ID == id {
			return &s.zones[i], true
		}
	}
	return nil, false
}

func (s *Store) indexOfLocked(id uint) int {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) sortLocked() {
	sort.SliceStable(s.bookings, func(i, j int) bool {
		return s.bookings[i].DateTime.Before(s.bookings[j].DateTime)
	})
}

func validateBookingInput(in CreateBookingInput) error {
	if strings.TrimSpace(in.ZoneID) == "" {
		return &ValidationError{Field: "zoneId", Message: "is required"}
	}
	if strings.TrimSpace(in.ClientName) == "" {
		return &ValidationError{Field: "clientName", Message: "is required"}
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return &ValidationError{Field: "phoneNumber", Message: "is required"}
	}
	if in.DateTime.IsZero() {
		return &ValidationError{Field: "dateTime", Message: "is required"}
	}
	if in.EndTime.IsZero() || !in.DateTime.Before(in.EndTime) {
		return &ValidationError{Field: "endTime", Message: "must be after the start time"}
	}
	return nil
}
