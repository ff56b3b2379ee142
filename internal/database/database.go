package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

var defaultAllergens = []string{
	"gluten",
	"milk",
	"eggs",
	"tree nuts",
	"peanuts",
	"soy",
	"sesame",
	"fish",
	"shellfish",
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	// SQLite allows a single writer; serialize through one connection.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entities.Category{},
		&entities.Allergen{},
		&entities.MenuItem{},
		&entities.ImportSession{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedAllergens(); err != nil {
		return nil, fmt.Errorf("failed to seed allergens: %w", err)
	}

	zap.L().Info("Database initialized", zap.String("path", dbPath))

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) seedAllergens() error {
	for _, name := range defaultAllergens {
		allergen := entities.Allergen{Name: name}
		if err := d.DB.Where(entities.Allergen{Name: name}).FirstOrCreate(&allergen).Error; err != nil {
			return fmt.Errorf("failed to create allergen %s: %w", name, err)
		}
	}
	return nil
}
