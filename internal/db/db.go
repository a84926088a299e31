package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres pool. TranslateError turns driver unique-index
// violations into gorm.ErrDuplicatedKey so services can map them to domain
// conflicts.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}
