package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ahmed8601/kahramana-site/pkg/config"
	"github.com/ahmed8601/kahramana-site/pkg/models"
	"github.com/ahmed8601/kahramana-site/pkg/persistence"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// InitDatabase initializes the database connection
func InitDatabase() error {
	var err error

	gormConfig := &gorm.Config{
		PrepareStmt: false,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	}

	// Development mode - verbose logging
	if config.IsDevelopment() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		// Production mode - only errors
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	}

	DB, err = gorm.Open(postgres.New(postgres.Config{
		DSN:                  config.AppConfig.DatabaseURL,
		PreferSimpleProtocol: true, // Disable implicit prepared statements to avoid "prepared statement already exists" errors
	}), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	log.Println("✅ Database connection established")

	return nil
}

// AutoMigrate creates the snapshot table
func AutoMigrate() error {
	log.Println("🔄 Running database migrations...")

	if err := DB.AutoMigrate(&models.StorageEntry{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database migrations completed")
	return nil
}

// PurgeStale deletes snapshot entries whose schema version is not version,
// or that cannot be read at all. It returns the number of deleted rows.
func PurgeStale(ctx context.Context, version int) (int, error) {
	var stale []string
	var batch []models.StorageEntry
	err := DB.WithContext(ctx).
		Where(`"key" LIKE ? ESCAPE '\'`, likePrefix(persistence.StorageKey+":")).
		FindInBatches(&batch, 200, func(tx *gorm.DB, _ int) error {
			for _, e := range batch {
				if v, err := persistence.PeekVersion(e.Value); err != nil || v != version {
					stale = append(stale, e.Key)
				}
			}
			return nil
		}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to scan snapshots: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	res := DB.WithContext(ctx).Where(`"key" IN ?`, stale).Delete(&models.StorageEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete stale snapshots: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix returns a LIKE pattern matching strings that start with prefix.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

// CloseDatabase closes the database connection
func CloseDatabase() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("✅ Database connection closed")
	}
}

// EntryStore is a persistence.Storage backed by the StorageEntry table.
type EntryStore struct {
	DB *gorm.DB
}

func (s EntryStore) Get(ctx context.Context, key string) (string, error) {
	var entry models.StorageEntry
	err := s.DB.WithContext(ctx).Where(`"key" = ?`, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", persistence.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (s EntryStore) Set(ctx context.Context, key, value string) error {
	entry := models.StorageEntry{Key: key, Value: value}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updatedAt"}),
	}).Create(&entry).Error
}

func (s EntryStore) Remove(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where(`"key" = ?`, key).Delete(&models.StorageEntry{}).Error
}
