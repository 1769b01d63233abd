package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	authHelper "attendance_backend/internals/features/users/auth/helper"
	authRepo "attendance_backend/internals/features/users/auth/repository"
	helper "attendance_backend/internals/helpers"
)

// ========================== CHANGE PASSWORD ==========================
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}

	if err := authHelper.CheckPasswordHash(user.Password, current); err != nil {
		return helper.Invalid("current_password", "current password is incorrect")
	}
	if err := authHelper.ValidatePassword(next); err != nil {
		return helper.Invalid("new_password", err.Error())
	}
	if current == next {
		return helper.Invalid("new_password", "must differ from the current password")
	}

	newHash, err := authHelper.HashPassword(next)
	if err != nil {
		return err
	}
	if err := authRepo.UpdateUserPassword(ctx, s.DB, userID, newHash); err != nil {
		return err
	}
	log.Printf("[INFO] password changed user=%s", user.UserName)
	return nil
}
