package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"attendance_backend/internals/constants"
	authHelper "attendance_backend/internals/features/users/auth/helper"
	authRepo "attendance_backend/internals/features/users/auth/repository"
	userModel "attendance_backend/internals/features/users/user/model"
	helper "attendance_backend/internals/helpers"
	"attendance_backend/internals/testdb"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *gorm.DB, userModel.UserModel) {
	t.Helper()
	db := testdb.New(t)
	hash, err := authHelper.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	email := "ayse@school.test"
	u := userModel.UserModel{
		UserName: "ayse",
		FullName: "Ayse Demir",
		Email:    &email,
		Password: hash,
		Role:     constants.RoleTeacher,
		IsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	svc := &Service{DB: db, Secret: "test-secret", TTL: time.Hour, Now: func() time.Time { return fixedNow }}
	return svc, db, u
}

func TestLogin(t *testing.T) {
	svc, db, u := newService(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		password   string
		wantErr    error
	}{
		{"by username", "ayse", "secret123", nil},
		{"by email any case", "AYSE@school.test", "secret123", nil},
		{"wrong password", "ayse", "nope", ErrBadCredentials},
		{"unknown user", "ghost", "secret123", ErrBadCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(ctx, tt.identifier, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if res.User.ID != u.ID || res.RedirectTo != "/api/t/dashboard" {
				t.Fatalf("result = %+v", res)
			}

			claims := jwt.MapClaims{}
			parser := jwt.Parser{SkipClaimsValidation: true}
			if _, err := parser.ParseWithClaims(res.AccessToken, claims, func(*jwt.Token) (any, error) {
				return []byte("test-secret"), nil
			}); err != nil {
				t.Fatalf("parse token: %v", err)
			}
			if claims["id"] != u.ID.String() || claims["role"] != "teacher" {
				t.Fatalf("claims = %v", claims)
			}
			if int64(claims["exp"].(float64)) != fixedNow.Add(time.Hour).Unix() {
				t.Fatalf("exp = %v", claims["exp"])
			}
		})
	}

	t.Run("blank identifier", func(t *testing.T) {
		if _, err := svc.Login(ctx, "  ", "x"); !helper.IsKind(err, helper.KindValidation) {
			t.Fatalf("err = %v, want validation", err)
		}
	})

	t.Run("inactive account", func(t *testing.T) {
		if err := db.Model(&userModel.UserModel{}).Where("id = ?", u.ID).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate: %v", err)
		}
		if _, err := svc.Login(ctx, "ayse", "secret123"); !errors.Is(err, ErrUserInactive) {
			t.Fatalf("err = %v, want ErrUserInactive", err)
		}
	})
}

func TestIssueTokenNeedsSecret(t *testing.T) {
	svc, _, u := newService(t)
	svc.Secret = ""
	if _, _, err := svc.IssueToken(u); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("err = %v, want ErrMissingSecret", err)
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	svc, db, u := newService(t)
	ctx := context.Background()
	token, exp, err := svc.IssueToken(u)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.Logout(ctx, token); err != nil {
			t.Fatalf("logout %d: %v", i, err)
		}
	}
	ok, err := authRepo.IsTokenBlacklisted(ctx, db, token)
	if err != nil || !ok {
		t.Fatalf("blacklisted = %v, %v", ok, err)
	}

	// Entries stay until the token's own expiry has passed.
	n, err := authRepo.CleanupExpiredBlacklist(ctx, db, exp)
	if err != nil || n != 0 {
		t.Fatalf("cleanup before expiry removed %d (%v)", n, err)
	}
	n, err = authRepo.CleanupExpiredBlacklist(ctx, db, exp.Add(2*time.Minute))
	if err != nil || n != 1 {
		t.Fatalf("cleanup after expiry removed %d (%v)", n, err)
	}

	if err := svc.Logout(ctx, ""); err != nil {
		t.Fatalf("logout without token: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, u := newService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		current   string
		next      string
		wantField string
	}{
		{"wrong current", "bad", "newpass123", "current_password"},
		{"too short", "secret123", "a1", "new_password"},
		{"no digits", "secret123", "onlyletters", "new_password"},
		{"same as current", "secret123", "secret123", "new_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(ctx, u.ID, tt.current, tt.next)
			var se *helper.ServiceError
			if !errors.As(err, &se) || len(se.Fields[tt.wantField]) == 0 {
				t.Fatalf("err = %v, want field %s", err, tt.wantField)
			}
		})
	}

	if err := svc.ChangePassword(ctx, u.ID, "secret123", "newpass123"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, "ayse", "newpass123"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, "ayse", "secret123"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
}
