package seeds

import (
	"os"
	"path/filepath"
	"testing"

	"attendance_backend/internals/configs"
	"attendance_backend/internals/constants"
	authHelper "attendance_backend/internals/features/users/auth/helper"
	"attendance_backend/internals/features/users/user/model"
	"attendance_backend/internals/testdb"
)

func TestRunAllSeeds(t *testing.T) {
	db := testdb.New(t)

	file := filepath.Join(t.TempDir(), "users.json")
	data := `[
		{"user_name": "ayse", "full_name": "Ayse Demir", "password": "teacher123", "role": "teacher"},
		{"user_name": "ghost", "password": "teacher123", "role": "janitor"}
	]`
	if err := os.WriteFile(file, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := &configs.Config{
		BootstrapAdminUsername: "root",
		BootstrapAdminPassword: "admin12345",
		BootstrapAdminFullName: "Administrator",
		SeedUsersFile:          file,
	}

	for i := 0; i < 2; i++ {
		if err := RunAllSeeds(db, cfg); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var users []model.UserModel
	if err := db.Order("user_name").Find(&users).Error; err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %d, want root and ayse only", len(users))
	}
	root := users[1]
	if root.UserName != "root" || root.Role != constants.RoleAdministrator || !root.IsActive {
		t.Fatalf("root = %+v", root)
	}
	if authHelper.CheckPasswordHash(root.Password, "admin12345") != nil {
		t.Fatalf("bootstrap password not hashed")
	}
	if users[0].Role != constants.RoleTeacher {
		t.Fatalf("ayse role = %s", users[0].Role)
	}
}

func TestRunAllSeedsWithoutBootstrap(t *testing.T) {
	db := testdb.New(t)
	if err := RunAllSeeds(db, &configs.Config{}); err != nil {
		t.Fatalf("RunAllSeeds: %v", err)
	}
	var n int64
	db.Model(&model.UserModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("users = %d, want none", n)
	}
}
