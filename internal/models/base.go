package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// BaseModel contains common columns for all tables
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `gorm:"<-:create" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DSN      string
	LogLevel string
}

// InitDB opens the MySQL connection and migrates the schema.
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	db, err := Open(config)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open connects to MySQL without touching the schema.
func Open(config DatabaseConfig) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(config.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(config.LogLevel)),
	})
}

// Migrate auto migrates the database models. Patients go first so the
// appointment foreign key has something to point at.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Patient{},
		&Appointment{},
	)
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug", "trace":
		return gormlogger.Info
	case "warn", "warning":
		return gormlogger.Warn
	case "error", "fatal", "panic":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
