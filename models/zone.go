package models

import "time"

// ZoneTypeOther marks ad-hoc zones created at booking time.
const ZoneTypeOther = "Другое"

// ZoneIDOther is the sentinel zone id a client sends when the booking
// targets a zone that is not in the catalog yet.
const ZoneIDOther = "other"

type Zone struct {
	ID        string    `gorm:"primaryKey;type:varchar(100)" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Type      string    `gorm:"type:varchar(100);not null" json:"type"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// DefaultZones is the fixed venue catalog. Ad-hoc "other" zones are
// appended to the table at booking time and are never deleted.
var DefaultZones = []Zone{
	{ID: "yurt1", Name: "Юрта 1", Type: "Юрты"},
	{ID: "yurt2", Name: "Юрта 2", Type: "Юрты"},
	{ID: "glamping1", Name: "Глэмпинг", Type: "Глэмпинг"},
	{ID: "gazebo1", Name: "Беседка 1", Type: "Беседки"},
	{ID: "gazebo2", Name: "Беседка 2", Type: "Беседки"},
	{ID: "gazebo3", Name: "Беседка 3", Type: "Беседки"},
	{ID: "gazebo4", Name: "Беседка 4", Type: "Беседки"},
	{ID: "khanShatyr", Name: "Хан-Шатыр", Type: "Хан-Шатыр"},
	{ID: "summerYard", Name: "Летний двор", Type: "Летний двор"},
	{ID: "terrace1", Name: "Терраса 1", Type: "Террасы"},
	{ID: "terrace2", Name: "Терраса 2", Type: "Террасы"},
	{ID: "terrace3", Name: "Терраса 3", Type: "Террасы"},
	{ID: "tapchane1", Name: "Тапчан 1", Type: "Тапчаны"},
	{ID: "tapchane2", Name: "Тапчан 2", Type: "Тапчаны"},
	{ID: "tapchane3", Name: "Тапчан 3", Type: "Тапчаны"},
	{ID: "tapchane4", Name: "Тапчан 4", Type: "Тапчаны"},
}
