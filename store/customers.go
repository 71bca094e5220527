package store

import (
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/tauasu/booking-app/models"
)

// Customer is the derived directory entry for one phone number. It is
// recomputed from the booking collection on every mutation; only the
// notes field has independent storage.
type Customer struct {
	Name          string    `json:"name"`
	PhoneNumber   string    `json:"phoneNumber"`
	Notes         string    `json:"notes,omitempty"`
	BookingsCount int       `json:"bookingsCount"`
	LastBooking   time.Time `json:"lastBooking"`
}

// rebuildCustomersLocked folds the full booking collection into a
// phone-keyed map. Order independent: lastBooking is max-by-dateTime and
// the name comes from the most recent booking, not insertion order.
func (s *Store) rebuildCustomersLocked() {
	byPhone := make(map[string]*Customer)
	for i := range s.bookings {
		b := &s.bookings[i]
		c, ok := byPhone[b.PhoneNumber]
		if !ok {
			c = &Customer{PhoneNumber: b.PhoneNumber}
			byPhone[b.PhoneNumber] = c
		}
		c.BookingsCount++
		if !b.DateTime.Before(c.LastBooking) {
			c.LastBooking = b.DateTime
			c.Name = b.ClientName
		}
	}

	customers := make([]Customer, 0, len(byPhone))
	for phone, c := range byPhone {
		c.Notes = s.notes[phone]
		customers = append(customers, *c)
	}
	sort.Slice(customers, func(i, j int) bool {
		if customers[i].LastBooking.Equal(customers[j].LastBooking) {
			return customers[i].PhoneNumber < customers[j].PhoneNumber
		}
		return customers[i].LastBooking.After(customers[j].LastBooking)
	})
	s.customers = customers
}

// Customers returns the derived customer directory, most recent first.
func (s *Store) Customers() []Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

func (s *Store) CustomerByPhone(phone string) (*Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].PhoneNumber == phone {
			c := s.customers[i]
			return &c, true
		}
	}
	return nil, false
}

// UpdateCustomerNotes writes the notes side-table and patches the
// in-memory record for that phone number. Bookings are not touched.
func (s *Store) UpdateCustomerNotes(phone, notes string, actor *models.User) error {
	if actor == nil || actor.Role != models.RoleAdmin {
		return &NotAuthorizedError{Message: "only an admin can edit customer notes"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note := models.CustomerNote{
		PhoneNumber: phone,
		Notes:       notes,
		UpdatedAt:   time.Now(),
	}
	if err := s.gw.UpsertNote(&note); err != nil {
		return err
	}

	s.notes[phone] = notes
	for i := range s.customers {
		if s.customers[i].PhoneNumber == phone {
			s.customers[i].Notes = notes
			break
		}
	}
	log.Printf("Customer notes updated for %s by %s", phone, actor.Username)
	return nil
}

// ExportHeader is the column order of the customers export.
var ExportHeader = []string{"Имя клиента", "Номер телефона", "Бронирований", "Последнее посещение", "Примечания"}

// ExportAll produces the tabular snapshot of the directory for external
// consumption (CSV, PDF). First row is the header.
func (s *Store) ExportAll() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([][]string, 0, len(s.customers)+1)
	rows = append(rows, ExportHeader)
	for _, c := range s.customers {
		rows = append(rows, []string{
			c.Name,
			c.PhoneNumber,
			strconv.Itoa(c.BookingsCount),
			c.LastBooking.Format("02.01.2006 15:04"),
			c.Notes,
		})
	}
	return rows
}
