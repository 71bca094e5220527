package models

import (
	"time"
)

// Booking -> one reservation of one zone on one day.
// Column tags map the engine field names to the remote schema:
// zoneId lives in `venue`, rentalCost in `rental_price`, etc.
type Booking struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ZoneID         string     `gorm:"column:venue;type:varchar(100);not null;index" json:"zoneId"`
	ZoneType       string     `gorm:"column:service_type;type:varchar(100)" json:"zoneType"`
	ClientName     string     `gorm:"column:client_name;type:varchar(255);not null" json:"clientName"`
	PhoneNumber    string     `gorm:"column:phone_number;type:varchar(50);not null;index" json:"phoneNumber"`
	PersonCount    int        `gorm:"column:number_of_people;not null;default:1" json:"personCount"`
	DateTime       time.Time  `gorm:"column:date_time;not null;index" json:"dateTime"`
	RentalCost     float64    `gorm:"column:rental_price;type:decimal(10,2);not null;default:0" json:"rentalCost"`
	Prepayment     float64    `gorm:"column:prepayment;type:decimal(10,2);not null;default:0" json:"prepayment"`
	Menu           *string    `gorm:"column:menu;type:text" json:"menu,omitempty"`
	CreatedBy      *string    `gorm:"column:created_by;type:varchar(100)" json:"createdBy,omitempty"`
	WaiterViewed   bool       `gorm:"column:waiter_viewed;not null;default:false" json:"waiterViewed"`
	CookViewed     bool       `gorm:"column:cook_viewed;not null;default:false" json:"cookViewed"`
	WaiterViewedAt *time.Time `gorm:"column:waiter_viewed_at" json:"waiterViewedAt,omitempty"`
	CookViewedAt   *time.Time `gorm:"column:cook_viewed_at" json:"cookViewedAt,omitempty"`
	Closed         bool       `gorm:"column:closed;not null;default:false" json:"closed"`
	ClosedBy       *string    `gorm:"column:closed_by;type:varchar(100)" json:"closedBy,omitempty"`
	ClosedAt       *time.Time `gorm:"column:closed_at" json:"closedAt,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;not null" json:"updatedAt"`
}

// Day returns the date portion of DateTime (YYYY-MM-DD).
// Zone exclusivity is compared at this granularity.
func (b *Booking) Day() string {
	return b.DateTime.Format("2006-01-02")
}
