package models

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"type:varchar(100);unique;not null" json:"username"`
	Password    string  `gorm:"type:varchar(255);not null" json:"-"`
	Role        string  `gorm:"type:varchar(50);not null" json:"role"`
	DisplayName *string `gorm:"type:varchar(255)" json:"displayName,omitempty"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}
