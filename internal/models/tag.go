package models

import "time"

// TagType names a category of tags (e.g. "farm", "cluster").
type TagType struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name string `gorm:"type:text;not null;uniqueIndex"` // Category name.

	CreatorID uint64 `gorm:"not null;index"`       // Creating user ID.
	Creator   *User  `gorm:"foreignKey:CreatorID"` // Creating user.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// Tag attaches a typed label to a portal.
type Tag struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name string `gorm:"type:text;not null"` // Label text.

	TagTypeID uint64   `gorm:"not null;index"`       // Tag category ID.
	TagType   *TagType `gorm:"foreignKey:TagTypeID"` // Tag category.

	PortalID uint64  `gorm:"not null;index"`      // Tagged portal ID.
	Portal   *Portal `gorm:"foreignKey:PortalID"` // Tagged portal.

	CreatorID uint64 `gorm:"not null;index"`       // Creating user ID.
	Creator   *User  `gorm:"foreignKey:CreatorID"` // Creating user.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
