// Package postgres implements the workflow's store contracts on the
// hosted Postgres backend through GORM. The two "at most one row"
// invariants (one Closing per date/shift/station, one OperatorClosing per
// closing/operator) are enforced by composite unique indexes; duplicate
// inserts surface as closing.ErrDuplicateKey so the orchestrator can
// re-read instead of failing.
package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
	"github.com/Thyago-vibe/posto-mobile/internal/service/closing"
)

const connectAttempts = 5

// Repository is the GORM-backed implementation of every store the
// services consume.
type Repository struct {
	db *gorm.DB
}

// New wraps an open database handle. Tests hand in a sqlite handle; the
// repository itself is dialect-agnostic.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Connect opens the Postgres backend, retrying briefly to ride out cold
// starts, and runs the schema migration.
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}

	var db *gorm.DB
	var err error
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema, including the unique indexes the
// closing workflow's correctness rests on.
func Migrate(db *gorm.DB) error {
	targets := []any{
		&models.Station{},
		&models.Shift{},
		&models.User{},
		&models.Operator{},
		&models.Client{},
		&models.Closing{},
		&models.OperatorClosing{},
		&models.CreditNoteLine{},
		&models.Product{},
		&models.ProductSale{},
		&models.StockMovement{},
		&models.ScheduleEntry{},
	}
	for _, target := range targets {
		if err := db.AutoMigrate(target); err != nil {
			return fmt.Errorf("automigrate %T: %w", target, err)
		}
	}
	return nil
}

// translateErr maps GORM's duplicate-key error onto the workflow
// sentinel.
func translateErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", closing.ErrDuplicateKey, err)
	}
	return err
}
