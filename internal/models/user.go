package models

import "time"

// User represents an account stored in the database. Accounts are read-only
// over the HTTP API; they are created through the bootstrap CLI path.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Name     string `gorm:"type:text"`                      // Display name.
	Email    string `gorm:"type:text"`                      // Email address.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	Active bool `gorm:"not null;default:true"` // Whether the user can sign in.

	Groups []Group `gorm:"many2many:user_groups"` // Group memberships.

	DateJoined time.Time `gorm:"not null;autoCreateTime"` // Account creation timestamp.
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// Group collects users for coarse-grained access decisions.
type Group struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name      string `gorm:"type:text;not null;uniqueIndex"` // Display name.
	IsDefault bool   `gorm:"not null;default:false"`         // Marks the default group.

	Users []User `gorm:"many2many:user_groups"` // Member users.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
