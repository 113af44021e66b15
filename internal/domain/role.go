package domain

import "time"

// Role slugs form a small closed set. Guards enumerate the slugs they accept
// instead of assuming a total order between tiers.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Slug        string       `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
