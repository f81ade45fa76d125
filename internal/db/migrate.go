package db

import (
	"errors"
	"fmt"

	"github.com/intelhub/backend/internal/models"
	"gorm.io/gorm"
)

// defaultGroupName is the group new users are placed in.
const defaultGroupName = "agents"

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	switch DialectName(conn) {
	case DialectSQLite, DialectPostgres, "":
	default:
		return fmt.Errorf("db: unsupported dialect: %s", DialectName(conn))
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.AuthToken{},
		&models.Portal{},
		&models.TagType{},
		&models.Tag{},
		&models.Comment{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	return ensureDefaultGroup(conn)
}

// ensureDefaultGroup seeds the default group when none is marked default.
func ensureDefaultGroup(conn *gorm.DB) error {
	var group models.Group
	errFind := conn.Where("is_default = ?", true).First(&group).Error
	if errFind == nil {
		return nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: find default group: %w", errFind)
	}
	record := models.Group{Name: defaultGroupName, IsDefault: true}
	if errCreate := conn.Create(&record).Error; errCreate != nil {
		return fmt.Errorf("db: seed default group: %w", errCreate)
	}
	return nil
}
