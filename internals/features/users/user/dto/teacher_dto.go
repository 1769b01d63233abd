package dto

import (
	"strings"
	"time"

	"attendance_backend/internals/constants"
	"attendance_backend/internals/features/users/user/model"

	"github.com/google/uuid"
)

// ========== CREATE ==========
type CreateTeacherRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	FullName string `json:"full_name" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Address  string `json:"address" validate:"omitempty,max=500"`
	IsActive *bool  `json:"is_active"`
}

func (r *CreateTeacherRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
}

// ToModel always produces a teacher; the password must be hashed by the caller.
func (r *CreateTeacherRequest) ToModel() *model.UserModel {
	m := &model.UserModel{
		UserName: r.UserName,
		FullName: r.FullName,
		Password: r.Password,
		Role:     constants.RoleTeacher,
		Phone:    r.Phone,
		Address:  r.Address,
		IsActive: true,
	}
	if r.Email != "" {
		email := r.Email
		m.Email = &email
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m
}

// ========== UPDATE (partial) ==========
type UpdateTeacherRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	FullName *string `json:"full_name" validate:"omitempty,min=3,max=150"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	IsActive *bool   `json:"is_active"`
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func (r *UpdateTeacherRequest) Normalize() {
	r.UserName = trimPtr(r.UserName)
	r.FullName = trimPtr(r.FullName)
	r.Phone = trimPtr(r.Phone)
	r.Address = trimPtr(r.Address)
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
}

// ToUpdates builds the column map for gorm. Password is handled separately.
func (r *UpdateTeacherRequest) ToUpdates() map[string]any {
	up := map[string]any{}
	if r.UserName != nil {
		up["user_name"] = *r.UserName
	}
	if r.FullName != nil {
		up["full_name"] = *r.FullName
	}
	if r.Email != nil {
		if *r.Email == "" {
			up["email"] = nil
		} else {
			up["email"] = *r.Email
		}
	}
	if r.Phone != nil {
		up["phone"] = *r.Phone
	}
	if r.Address != nil {
		up["address"] = *r.Address
	}
	if r.IsActive != nil {
		up["is_active"] = *r.IsActive
	}
	return up
}

// ========== RESPONSE ==========
type TeacherResponse struct {
	ID            uuid.UUID `json:"id"`
	UserName      string    `json:"user_name"`
	FullName      string    `json:"full_name"`
	Email         *string   `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	IsActive      bool      `json:"is_active"`
	ScheduleCount int64     `json:"schedule_count"`
	CreatedAt     string    `json:"created_at"`
	UpdatedAt     string    `json:"updated_at"`
}

func ToTeacherResponse(m model.UserModel, scheduleCount int64) TeacherResponse {
	return TeacherResponse{
		ID:            m.ID,
		UserName:      m.UserName,
		FullName:      m.FullName,
		Email:         m.Email,
		Phone:         m.Phone,
		Address:       m.Address,
		IsActive:      m.IsActive,
		ScheduleCount: scheduleCount,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     m.UpdatedAt.Format(time.RFC3339),
	}
}
