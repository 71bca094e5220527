package store

import (
	"github.com/tauasu/booking-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gateway is the thin adapter between the engine and the remote store.
// Field name translation happens through the gorm column tags on the
// models; every failed call comes back as *PersistenceError so the
// repository can refuse to touch local state.
type Gateway struct {
	DB *gorm.DB
}

func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{DB: db}
}

func (g *Gateway) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// FetchBookings loads the full booking collection sorted by date_time.
func (g *Gateway) FetchBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := g.DB.Order("date_time ASC").Find(&bookings).Error; err != nil {
		return nil, g.wrap("fetch bookings", err)
	}
	return bookings, nil
}

func (g *Gateway) InsertBooking(b *models.Booking) error {
	return g.wrap("insert booking", g.DB.Create(b).Error)
}

// UpdateBooking persists a sparse patch. Keys are remote column names.
func (g *Gateway) UpdateBooking(id uint, fields map[string]interface{}) error {
	return g.wrap("update booking",
		g.DB.Model(&models.Booking{}).Where("id = ?", id).Updates(fields).Error)
}

func (g *Gateway) DeleteBooking(id uint) error {
	return g.wrap("delete booking", g.DB.Delete(&models.Booking{}, id).Error)
}

func (g *Gateway) FetchZones() ([]models.Zone, error) {
	var zones []models.Zone
	if err := g.DB.Order("created_at ASC").Find(&zones).Error; err != nil {
		return nil, g.wrap("fetch zones", err)
	}
	return zones, nil
}

func (g *Gateway) InsertZone(z *models.Zone) error {
	return g.wrap("insert zone", g.DB.Create(z).Error)
}

func (g *Gateway) FetchUsers() ([]models.User, error) {
	var users []models.User
	if err := g.DB.Find(&users).Error; err != nil {
		return nil, g.wrap("fetch users", err)
	}
	return users, nil
}

func (g *Gateway) FetchNotifications() ([]models.Notification, error) {
	var notifs []models.Notification
	if err := g.DB.Order("created_at DESC").Find(&notifs).Error; err != nil {
		return nil, g.wrap("fetch notifications", err)
	}
	return notifs, nil
}

func (g *Gateway) InsertNotifications(notifs []models.Notification) ([]models.Notification, error) {
	if len(notifs) == 0 {
		return notifs, nil
	}
	if err := g.DB.Create(&notifs).Error; err != nil {
		return nil, g.wrap("insert notifications", err)
	}
	return notifs, nil
}

func (g *Gateway) MarkNotificationRead(id uint) error {
	return g.wrap("mark notification read",
		g.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error)
}

func (g *Gateway) MarkAllNotificationsRead(username string) error {
	return g.wrap("mark all notifications read",
		g.DB.Model(&models.Notification{}).
			Where("read = ? AND (for_username = ? OR for_username = ?)",
				false, username, models.NotificationForAll).
			Update("read", true).Error)
}

func (g *Gateway) FetchNotes() ([]models.CustomerNote, error) {
	var notes []models.CustomerNote
	if err := g.DB.Find(&notes).Error; err != nil {
		return nil, g.wrap("fetch customer notes", err)
	}
	return notes, nil
}

// UpsertNote writes the notes side-table entry for a phone number.
func (g *Gateway) UpsertNote(note *models.CustomerNote) error {
	return g.wrap("upsert customer note",
		g.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"notes", "updated_at"}),
		}).Create(note).Error)
}
