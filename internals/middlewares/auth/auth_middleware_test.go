package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"attendance_backend/internals/constants"
	authRepo "attendance_backend/internals/features/users/auth/repository"
	userModel "attendance_backend/internals/features/users/user/model"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const secret = "mw-secret"

func sign(t *testing.T, id uuid.UUID, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  id.String(),
		"exp": exp.Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func newApp(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).SendString(err.Error())
		},
	})
	api := app.Group("/api", AuthMiddleware(db, secret))
	api.Get("/whoami", func(c *fiber.Ctx) error {
		p, err := helperAuth.CurrentPrincipal(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": p.ID, "role": p.Role})
	})
	admin := api.Group("/a", OnlyRoles("admins only", constants.RoleAdministrator))
	admin.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return app
}

func call(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	db := testdb.New(t)
	app := newApp(db)
	teacher := testdb.User(t, db, "ayse", constants.RoleTeacher)
	admin := testdb.User(t, db, "root", constants.RoleAdministrator)
	inactive := testdb.User(t, db, "gone", constants.RoleTeacher)
	if err := db.Model(&userModel.UserModel{}).Where("id = ?", inactive.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	valid := sign(t, teacher.ID, time.Now().Add(time.Hour))
	revoked := sign(t, teacher.ID, time.Now().Add(2*time.Hour))
	if err := authRepo.BlacklistToken(context.Background(), db, revoked, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("blacklist: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/api/whoami", "", fiber.StatusUnauthorized},
		{"garbage token", "/api/whoami", "not-a-jwt", fiber.StatusUnauthorized},
		{"expired", "/api/whoami", sign(t, teacher.ID, time.Now().Add(-time.Hour)), fiber.StatusUnauthorized},
		{"blacklisted", "/api/whoami", revoked, fiber.StatusUnauthorized},
		{"unknown user", "/api/whoami", sign(t, uuid.New(), time.Now().Add(time.Hour)), fiber.StatusUnauthorized},
		{"inactive user", "/api/whoami", sign(t, inactive.ID, time.Now().Add(time.Hour)), fiber.StatusForbidden},
		{"teacher ok", "/api/whoami", valid, fiber.StatusOK},
		{"teacher on admin route", "/api/a/ping", valid, fiber.StatusForbidden},
		{"admin on admin route", "/api/a/ping", sign(t, admin.ID, time.Now().Add(time.Hour)), fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, tt.path, tt.token)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", status, tt.status, body)
			}
		})
	}

	t.Run("role comes from the database", func(t *testing.T) {
		_, body := call(t, app, "/api/whoami", valid)
		var out struct {
			ID   uuid.UUID `json:"id"`
			Role string    `json:"role"`
		}
		if err := json.Unmarshal([]byte(body), &out); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		if out.ID != teacher.ID || out.Role != "teacher" {
			t.Fatalf("principal = %+v", out)
		}
	})

	t.Run("forbidden carries redirect_to", func(t *testing.T) {
		_, body := call(t, app, "/api/a/ping", valid)
		var out struct {
			RedirectTo string `json:"redirect_to"`
		}
		if err := json.Unmarshal([]byte(body), &out); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		if out.RedirectTo != "/api/t/dashboard" {
			t.Fatalf("redirect_to = %q", out.RedirectTo)
		}
	})
}
