package models

import "time"

// Comment is a user remark on a portal.
type Comment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Content string `gorm:"type:text;not null"` // Comment body.

	PortalID uint64  `gorm:"not null;index"`      // Commented portal ID.
	Portal   *Portal `gorm:"foreignKey:PortalID"` // Commented portal.

	AuthorID uint64 `gorm:"not null;index"`      // Authoring user ID.
	Author   *User  `gorm:"foreignKey:AuthorID"` // Authoring user.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
