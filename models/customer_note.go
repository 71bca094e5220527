package models

import "time"

// CustomerNote is the persisted free-text note for a phone number.
// It lives independently of the booking collection so a note survives
// delete-then-recreate of the customer's bookings.
type CustomerNote struct {
	PhoneNumber string    `gorm:"primaryKey;type:varchar(50)" json:"phoneNumber"`
	Notes       string    `gorm:"type:text" json:"notes"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}
