package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/aita-go-api/internal/models"
)

// SQLStore keeps slots in the state_entries table through GORM.
type SQLStore struct {
	db     *gorm.DB
	prefix string
}

// NewSQLStore migrates the state table and returns a store scoped to profile.
func NewSQLStore(ctx context.Context, db *gorm.DB, profile string) (*SQLStore, error) {
	if err := db.WithContext(ctx).AutoMigrate(&models.StateEntry{}); err != nil {
		return nil, fmt.Errorf("migrate state entries: %w", err)
	}
	return &SQLStore{db: db, prefix: profile + ":"}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.StateEntry
	err := s.db.WithContext(ctx).Where("key = ?", s.prefix+key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	entry := models.StateEntry{
		Key:       s.prefix + key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", s.prefix+key).Delete(&models.StateEntry{}).Error
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
