package models

import "time"

// AuthToken is an opaque API token bound to a single user. A user holds at
// most one live token; refreshing replaces the key and timestamp in place.
type AuthToken struct {
	Key string `gorm:"type:text;primaryKey"` // Opaque token key (40 hex chars).

	UserID uint64 `gorm:"not null;uniqueIndex"` // Owning user ID.
	User   *User  `gorm:"foreignKey:UserID"`    // Owning user.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Issue timestamp.
}
