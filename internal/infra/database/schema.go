package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/totegamma/rfb-playground/internal/infra/relational"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// IdentitySource names the sequence (postgres) or counter table (sqlite)
// that every insert draws its id from.
const IdentitySource = "sequence_generator"

// The schema is created in place on startup. There is no versioning: tables
// that already exist are left alone.
var postgresSchema = []string{
	`CREATE SEQUENCE IF NOT EXISTS sequence_generator START WITH 1 INCREMENT BY 1`,
	`CREATE TABLE IF NOT EXISTS rfb_location (
		id BIGINT PRIMARY KEY,
		location_name VARCHAR(255),
		run_day_of_week INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS rfb_user (
		id BIGINT PRIMARY KEY,
		username VARCHAR(255),
		home_location_id BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS rfb_event (
		id BIGINT PRIMARY KEY,
		event_date DATE,
		event_code VARCHAR(255),
		rfb_location_id BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS rfb_event_attendance (
		id BIGINT PRIMARY KEY,
		attendance_date DATE,
		rfb_event_id BIGINT,
		rfb_user_id BIGINT
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sequence_generator (next_val INTEGER NOT NULL)`,
	`INSERT INTO sequence_generator (next_val) SELECT 0 WHERE NOT EXISTS (SELECT 1 FROM sequence_generator)`,
	`CREATE TABLE IF NOT EXISTS rfb_location (
		id INTEGER PRIMARY KEY,
		location_name TEXT,
		run_day_of_week INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS rfb_user (
		id INTEGER PRIMARY KEY,
		username TEXT,
		home_location_id INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS rfb_event (
		id INTEGER PRIMARY KEY,
		event_date DATE,
		event_code TEXT,
		rfb_location_id INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS rfb_event_attendance (
		id INTEGER PRIMARY KEY,
		attendance_date DATE,
		rfb_event_id INTEGER,
		rfb_user_id INTEGER
	)`,
}

func ApplySchema(db *gorm.DB, driver string) error {
	var statements []string
	switch driver {
	case DriverPostgres:
		statements = postgresSchema
	case DriverSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func IdentityStrategy(driver string) (relational.IdentityStrategy, error) {
	switch driver {
	case DriverPostgres:
		return relational.SequenceIdentity{Sequence: IdentitySource}, nil
	case DriverSQLite:
		return relational.CounterIdentity{Table: IdentitySource}, nil
	}
	return nil, fmt.Errorf("unsupported driver %q", driver)
}
