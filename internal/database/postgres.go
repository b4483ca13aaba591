package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectPostgres opens the shared state database used when several machines
// keep one teacher's reports. The pool stays small since the CLI is short lived.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres state store needs AITA_DATABASE_URL")
	}

	db, err := openGORM("postgres", postgres.Open(dsn))
	if err != nil {
		return nil, err
	}

	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	pool.SetMaxOpenConns(2)
	pool.SetConnMaxIdleTime(30 * time.Second)

	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
