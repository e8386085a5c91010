package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Database is the process-wide connection pool shared by all repositories.
type Database interface {
	GetDB() *gorm.DB
	Close() error
}

type GormDatabase struct {
	DB *gorm.DB
}

func (g *GormDatabase) GetDB() *gorm.DB { return g.DB }

// Close drains the underlying sql.DB pool.
func (g *GormDatabase) Close() error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
