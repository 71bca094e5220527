package models

import (
	"time"
)

const (
	NotificationBookingCreated = "booking_created"
	NotificationBookingClosed  = "booking_closed"

	// NotificationForAll addresses a record to every user.
	NotificationForAll = "all"
)

// Notification is one addressed record, fanned out per recipient on a
// booking lifecycle event. Read state is per record and never deleted.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Type        string    `gorm:"type:varchar(50);not null" json:"type"`
	BookingID   uint      `gorm:"not null;index" json:"bookingId"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	ForUsername string    `gorm:"type:varchar(100);not null;index" json:"forUsername"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}
