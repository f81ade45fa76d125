package models

import (
	"time"

	"gorm.io/datatypes"
)

// Portal is a game portal at a physical location. Records arrive either
// through the CRUD surface or through bulk ingest, which upserts by the
// externally-assigned guid or the derived intel link.
type Portal struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	GUID string `gorm:"type:text;not null;uniqueIndex"` // External unique identifier.
	Link string `gorm:"type:text;not null;uniqueIndex"` // Intel map URL derived from coordinates.

	Lat float64 `gorm:"not null"` // Latitude in degrees.
	Lng float64 `gorm:"not null"` // Longitude in degrees.

	Image     string `gorm:"type:text"`          // Portal image URL.
	Title     string `gorm:"type:text"`          // Portal title.
	Timestamp int64  `gorm:"not null;default:0"` // Source timestamp (ms).

	AuthorID uint64 `gorm:"not null;index"`      // Submitting user ID; never reassigned on ingest update.
	Author   *User  `gorm:"foreignKey:AuthorID"` // Submitting user.

	Raw datatypes.JSON // Last ingest payload, kept for audit.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
