package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the central user entity for logic and database structure.
// Permissions holds the serialized per-user permission bag seeded from the
// role defaults at creation time; an empty value means the role defaults
// apply unchanged.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password       string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	FullName       string         `gorm:"type:varchar(255);not null" json:"full_name"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone          string         `gorm:"type:varchar(20)" json:"phone"`
	Role           string         `gorm:"type:varchar(50);not null" json:"role"` // manager, it_admin, data_entry, purchasing, accounting
	Permissions    string         `gorm:"type:jsonb" json:"-"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	IsOnline       bool           `gorm:"default:false" json:"is_online"`
	LastLoginAt    *time.Time     `json:"last_login_at"`
	LastActivityAt *time.Time     `json:"last_activity_at"`
	IPAddress      string         `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// PasswordResetToken is a single-use token for administrator-driven password resets
type PasswordResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
