package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"attendance_backend/internals/constants"
	authHelper "attendance_backend/internals/features/users/auth/helper"
	"attendance_backend/internals/features/users/user/model"

	"gorm.io/gorm"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// EnsureAdmin creates the administrator account when userName is not taken
// yet. Existing accounts are never modified.
func EnsureAdmin(db *gorm.DB, userName, password, fullName string) (bool, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return false, nil
	}
	return ensure(db, UserSeed{
		UserName: userName,
		FullName: fullName,
		Password: password,
		Role:     string(constants.RoleAdministrator),
	})
}

func ensure(db *gorm.DB, data UserSeed) (bool, error) {
	role := constants.Role(strings.ToLower(strings.TrimSpace(data.Role)))
	if !role.Valid() {
		return false, fmt.Errorf("seed user %q: unknown role %q", data.UserName, data.Role)
	}

	var existing model.UserModel
	err := db.Where("user_name = ?", data.UserName).Take(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashedPassword, err := authHelper.HashPassword(data.Password)
	if err != nil {
		return false, fmt.Errorf("seed user %q: %w", data.UserName, err)
	}
	u := model.UserModel{
		UserName: data.UserName,
		FullName: data.FullName,
		Password: hashedPassword,
		Role:     role,
		IsActive: true,
	}
	if email := strings.ToLower(strings.TrimSpace(data.Email)); email != "" {
		u.Email = &email
	}
	if err := db.Create(&u).Error; err != nil {
		return false, fmt.Errorf("seed user %q: %w", data.UserName, err)
	}
	return true, nil
}

// SeedUsersFromJSON inserts the accounts listed in filePath, skipping
// usernames that already exist.
func SeedUsersFromJSON(db *gorm.DB, filePath string) error {
	log.Println("[SEED] reading users from", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	for _, data := range inputs {
		created, err := ensure(db, data)
		if err != nil {
			log.Printf("[SEED] %v", err)
			continue
		}
		if created {
			log.Printf("[SEED] user %q created", data.UserName)
		}
	}
	return nil
}
