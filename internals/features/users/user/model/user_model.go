package model

import (
	"time"

	"attendance_backend/internals/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is the users table. Exactly one role per user.
type UserModel struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string         `gorm:"size:50;not null;uniqueIndex:uq_users_user_name" json:"user_name"`
	FullName string         `gorm:"size:150" json:"full_name"`
	Email    *string        `gorm:"size:255;uniqueIndex:uq_users_email" json:"email,omitempty"`
	Password string         `gorm:"not null" json:"-"`
	Role     constants.Role `gorm:"type:varchar(20);not null;default:'teacher';index" json:"role"`
	Phone    string         `gorm:"size:20" json:"phone,omitempty"`
	Address  string         `gorm:"type:text" json:"address,omitempty"`
	IsActive bool           `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = constants.RoleTeacher
	}
	return nil
}

// DisplayName falls back to the username when no full name is set.
func (u UserModel) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.UserName
}
