package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/aita-go-api/internal/config"
	"github.com/noah-isme/aita-go-api/internal/database"
)

// ErrNotFound is returned by Get when a slot holds no value.
var ErrNotFound = errors.New("state key not found")

// Slot names used by the client. Values are JSON documents.
const (
	KeyTeacher    = "aita_teacher"
	KeyCredential = "aita_openai_key"
	KeyReports    = "aita_reports"
	KeyTheme      = "aita_theme"
	KeyAccent     = "aita_accent"
	KeyDraft      = "aita_draft"
	KeyModel      = "aita_model"
)

// Store is the raw capability set behind local client state: named slots that
// survive restarts, with no expiry and no encryption.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open builds the backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.ClientConfig) (Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return NewMemoryStore(), nil
	case config.StoreDriverBolt, "":
		db, err := database.OpenBolt(cfg.StorePath, cfg.Profile)
		if err != nil {
			return nil, err
		}
		return NewBoltStore(db, cfg.Profile), nil
	case config.StoreDriverRedis:
		client, err := database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Profile), nil
	case config.StoreDriverSQLite:
		db, err := database.ConnectSQLite(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(ctx, db, cfg.Profile)
	case config.StoreDriverPostgres:
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(ctx, db, cfg.Profile)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
