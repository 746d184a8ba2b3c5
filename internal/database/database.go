package database

import (
	"synergies-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN (Supabase/Postgres pooler URL).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer, Supabase).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// Pinger adapts a *gorm.DB to the health check's DBPinger interface.
func Pinger(db *gorm.DB) interface{ Ping() error } {
	return gormPinger{db}
}

type gormPinger struct{ db *gorm.DB }

func (p gormPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// AutoMigrate runs migrations for all referral-tracking tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Employee{},
		&domain.Recommendation{},
		&domain.Commission{},
		&domain.CommissionLog{},
		&domain.Note{},
		&domain.Activity{},
		&domain.FeatureSuggestion{},
	)
}
