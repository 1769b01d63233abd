package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"attendance_backend/internals/features/roster/students/service"
	"attendance_backend/internals/testdb"

	"github.com/gofiber/fiber/v2"
)

type envelope struct {
	Success   bool                `json:"success"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Input     map[string]any      `json:"input"`
	Data      json.RawMessage     `json:"data"`
}

func TestStudentEndpoints(t *testing.T) {
	db := testdb.New(t)
	class := testdb.Class(t, db, "9-A")

	app := fiber.New()
	ctrl := NewStudentController(service.NewStudentService(db))
	app.Get("/students", ctrl.List)
	app.Post("/students", ctrl.Create)

	send := func(method, path, body string) (int, envelope) {
		t.Helper()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		raw, _ := io.ReadAll(resp.Body)
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return resp.StatusCode, env
	}

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"short national id", `{"student_class_id":"` + class.ClassID.String() + `","student_first_name":"Ali","student_last_name":"Veli","student_national_id":"123"}`, 422, "student_national_id"},
		{"bad gender", `{"student_class_id":"` + class.ClassID.String() + `","student_first_name":"Ali","student_last_name":"Veli","student_national_id":"12345678901","student_gender":"X"}`, 422, "student_gender"},
		{"missing names", `{"student_class_id":"` + class.ClassID.String() + `","student_national_id":"12345678901"}`, 422, "student_first_name"},
		{"created", `{"student_class_id":"` + class.ClassID.String() + `","student_first_name":"Ali","student_last_name":"Veli","student_national_id":"12345678901"}`, 201, ""},
		{"duplicate", `{"student_class_id":"` + class.ClassID.String() + `","student_first_name":"Ayse","student_last_name":"Veli","student_national_id":"12345678901"}`, 422, "student_national_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := send("POST", "/students", tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%+v)", status, tt.status, env)
			}
			if tt.field != "" {
				if env.ErrorCode != "VALIDATION_ERROR" || len(env.Errors[tt.field]) == 0 {
					t.Fatalf("errors = %v, want %s", env.Errors, tt.field)
				}
				if env.Input["student_class_id"] != class.ClassID.String() {
					t.Fatalf("input not echoed: %v", env.Input)
				}
			}
		})
	}

	status, _ := send("GET", "/students?class_id=nope", "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("bad class_id status = %d", status)
	}
	status, env := send("GET", "/students?class_id="+class.ClassID.String()+"&active=1", "")
	if status != fiber.StatusOK || !env.Success {
		t.Fatalf("list status = %d", status)
	}
	var rows []map[string]any
	if err := json.Unmarshal(env.Data, &rows); err != nil || len(rows) != 1 {
		t.Fatalf("rows = %s, err = %v", env.Data, err)
	}
}
