package database

import (
	"fmt"

	"github.com/tauasu/booking-app/utils"
	"gorm.io/gorm"
)

// Triggers on the bookings table feed the db_changes table; the
// reconciler polls that feed. Both dialects get the same three triggers.

var sqliteTriggers = []string{
	`CREATE TRIGGER IF NOT EXISTS bookings_after_insert
	AFTER INSERT ON bookings
	BEGIN
		INSERT INTO db_changes (table_name, record_id, action_type, changed_at, processed)
		VALUES ('bookings', NEW.id, 'INSERT', CURRENT_TIMESTAMP, 0);
	END;`,
	`CREATE TRIGGER IF NOT EXISTS bookings_after_update
	AFTER UPDATE ON bookings
	BEGIN
		INSERT INTO db_changes (table_name, record_id, action_type, changed_at, processed)
		VALUES ('bookings', NEW.id, 'UPDATE', CURRENT_TIMESTAMP, 0);
	END;`,
	`CREATE TRIGGER IF NOT EXISTS bookings_after_delete
	AFTER DELETE ON bookings
	BEGIN
		INSERT INTO db_changes (table_name, record_id, action_type, changed_at, processed)
		VALUES ('bookings', OLD.id, 'DELETE', CURRENT_TIMESTAMP, 0);
	END;`,
}

var mysqlTriggers = []string{
	`DROP TRIGGER IF EXISTS bookings_after_insert`,
	`CREATE TRIGGER bookings_after_insert
	AFTER INSERT ON bookings FOR EACH ROW
	INSERT INTO db_changes (table_name, record_id, action_type, changed_at, processed)
	VALUES ('bookings', NEW.id, 'INSERT', NOW(), 0)`,
	`DROP TRIGGER IF EXISTS bookings_after_update`,
	`CREATE TRIGGER bookings_after_update
	AFTER UPDATE ON bookings FOR EACH ROW
	INSERT INTO db_changes (table_name, record_id, action_type, changed_at, processed)
	VALUES ('bookings', NEW.id, 'UPDATE', NOW(), 0)`,
	`DROP TRIGGER IF EXISTS bookings_after_delete`,
	`CREATE TRIGGER bookings_after_delete
	AFTER DELETE ON bookings FOR EACH ROW
	INSERT INTO db_changes (table_name, record_id, action_type, changed_at, processed)
	VALUES ('bookings', OLD.id, 'DELETE', NOW(), 0)`,
}

func ExecuteTriggers(db *gorm.DB) error {
	var statements []string
	switch db.Dialector.Name() {
	case "sqlite":
		statements = sqliteTriggers
	case "mysql":
		statements = mysqlTriggers
	default:
		return fmt.Errorf("unsupported dialect for triggers: %s", db.Dialector.Name())
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			utils.ErrorLogger.Printf("Error executing trigger: %v\nStatement: %s", err, stmt)
			return err
		}
	}
	utils.InfoLogger.Printf("Booking change triggers installed (%s)", db.Dialector.Name())
	return nil
}
