package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openGORM opens a quiet GORM handle. The state store issues a handful of
// single-row statements so SQL logging is left off.
func openGORM(kind string, dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s state database: %w", kind, err)
	}
	return db, nil
}
