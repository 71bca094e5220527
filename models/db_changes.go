package models

import (
	"time"
)

// DBChange is one row of the change feed. Triggers on the bookings table
// append a row on every insert/update/delete; the reconciler polls for
// unprocessed rows and marks them processed after a refresh.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	TableName  string    `gorm:"type:varchar(50);not null;index:idx_table_action"`
	RecordID   int64     `gorm:"not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_table_action"`
	ChangedAt  time.Time `gorm:"not null"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}
