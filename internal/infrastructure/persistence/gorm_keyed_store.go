package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shopfront/backend/internal/domain/shared"
)

// KeyedValue is the single table behind the GORM keyed store
type KeyedValue struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName sets the table name for KeyedValue
func (KeyedValue) TableName() string {
	return "keyed_values"
}

// GormKeyedStore implements shared.KeyedStore on a relational database.
// The sqlite driver is the durable local medium for single-node setups;
// postgres serves shared deployments.
type GormKeyedStore struct {
	db *gorm.DB
}

// OpenSQLite opens a sqlite-backed keyed store at the given path
func OpenSQLite(path string, logger gormlogger.Interface) (*GormKeyedStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("persistence: failed to open sqlite store: %w", err)
	}
	return NewGormKeyedStore(db)
}

// OpenPostgres opens a postgres-backed keyed store with the given DSN
func OpenPostgres(dsn string, logger gormlogger.Interface) (*GormKeyedStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("persistence: failed to open postgres store: %w", err)
	}
	return NewGormKeyedStore(db)
}

// NewGormKeyedStore wraps an existing gorm handle and migrates the schema
func NewGormKeyedStore(db *gorm.DB) (*GormKeyedStore, error) {
	if err := db.AutoMigrate(&KeyedValue{}); err != nil {
		return nil, fmt.Errorf("persistence: failed to migrate keyed store schema: %w", err)
	}
	return &GormKeyedStore{db: db}, nil
}

// Get implements shared.KeyedStore
func (s *GormKeyedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row KeyedValue
	err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("persistence: failed to read key %q: %w", key, err)
	}
	return row.Value, true, nil
}

// Set implements shared.KeyedStore with an upsert
func (s *GormKeyedStore) Set(ctx context.Context, key string, value []byte) error {
	row := KeyedValue{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("persistence: failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete implements shared.KeyedStore. Deleting a missing key is a no-op.
func (s *GormKeyedStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&KeyedValue{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("persistence: failed to delete key %q: %w", key, err)
	}
	return nil
}

// Ensure GormKeyedStore implements KeyedStore
var _ shared.KeyedStore = (*GormKeyedStore)(nil)
