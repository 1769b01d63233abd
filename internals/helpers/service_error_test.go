package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		redirect string
		field    string
	}{
		{"not found", NotFound("session %s not found", "x"), 404, "NOT_FOUND", "", ""},
		{"forbidden", Forbidden("not your session"), 403, "FORBIDDEN", "/api/t/dashboard", ""},
		{"validation", Invalid("date", "already taken"), 422, "VALIDATION_ERROR", "", "date"},
		{"wrapped validation", fmt.Errorf("create: %w", Invalid("topic", "required")), 422, "VALIDATION_ERROR", "", "topic"},
		{"fiber error", fiber.NewError(fiber.StatusBadRequest, "bad id"), 400, "BAD_REQUEST", "", ""},
		{"unexpected", errors.New("db exploded"), 500, "INTERNAL_ERROR", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/", func(c *fiber.Ctx) error {
				return WriteServiceError(c, tt.err, fiber.Map{"topic": "echo"}, "/api/t/dashboard")
			})
			resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			raw, _ := io.ReadAll(resp.Body)
			var body ErrorResponse
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("decode %s: %v", raw, err)
			}
			if body.Success || body.ErrorCode != tt.code || body.RedirectTo != tt.redirect {
				t.Fatalf("body = %+v", body)
			}
			if tt.field != "" {
				if len(body.Errors[tt.field]) == 0 || body.Input == nil {
					t.Fatalf("errors = %v, input = %v", body.Errors, body.Input)
				}
			}
			if tt.status == 500 && body.Message == "db exploded" {
				t.Fatalf("internal error leaked to client")
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("gone"))
	if !IsKind(err, KindNotFound) || IsKind(err, KindForbidden) {
		t.Fatalf("IsKind mismatch for %v", err)
	}
	if IsKind(errors.New("plain"), KindValidation) {
		t.Fatalf("plain error reported as validation")
	}
	fields := ValidationFields(InvalidFields(map[string][]string{"a": {"x"}, "b": {"y"}}))
	if len(fields) != 2 {
		t.Fatalf("fields = %v", fields)
	}
}
