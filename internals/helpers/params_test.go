package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		got, err := ParseUUIDParam(c, "id")
		if err != nil {
			return err
		}
		if got != id {
			t.Errorf("got %s, want %s", got, id)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"valid", "/items/" + id.String(), fiber.StatusNoContent},
		{"malformed", "/items/not-a-uuid", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestParseQueryHelpers(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name       string
		query      string
		wantID     *uuid.UUID
		wantErr    bool
		wantActive *bool
	}{
		{"empty", "", nil, false, nil},
		{"id and active", "?class_id=" + id.String() + "&active=1", &id, false, ptr(true)},
		{"inactive word", "?active=FALSE", nil, false, ptr(false)},
		{"unknown active", "?active=maybe", nil, false, nil},
		{"bad id", "?class_id=42", nil, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				gotID     *uuid.UUID
				gotErr    error
				gotActive *bool
			)
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				gotID, gotErr = ParseUUIDQuery(c, "class_id")
				gotActive = ParseBoolQuery(c, "active")
				return nil
			})
			if _, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil)); err != nil {
				t.Fatal(err)
			}
			if (gotErr != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", gotErr, tt.wantErr)
			}
			if (gotID == nil) != (tt.wantID == nil) || (gotID != nil && *gotID != *tt.wantID) {
				t.Fatalf("id = %v, want %v", gotID, tt.wantID)
			}
			if (gotActive == nil) != (tt.wantActive == nil) || (gotActive != nil && *gotActive != *tt.wantActive) {
				t.Fatalf("active = %v, want %v", gotActive, tt.wantActive)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
