package controller

import (
	"net/http/httptest"
	"strings"
	"testing"

	"attendance_backend/internals/features/attendance/reports/service"
	"attendance_backend/internals/testdb"

	"github.com/gofiber/fiber/v2"
)

func TestExportFileName(t *testing.T) {
	tests := []struct {
		name  string
		class string
		want  string
	}{
		{"plain", "9-A", "attendance_9-A.xlsx"},
		{"spaces", " 10 B ", "attendance_10_B.xlsx"},
		{"quotes and semicolon", `9"A; x`, "attendance_9_A__x.xlsx"},
		{"non-ascii", "Şube Ç", "attendance__ube__.xlsx"},
		{"nothing usable", `"""`, "attendance_class.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exportFileName(tt.class); got != tt.want {
				t.Fatalf("exportFileName(%q) = %q, want %q", tt.class, got, tt.want)
			}
		})
	}
}

func TestExportClassReportHeaders(t *testing.T) {
	db := testdb.New(t)
	class := testdb.Class(t, db, `Fen "Ş" 9`)
	testdb.Student(t, db, class.ClassID, "Ali", "Veli", true)

	app := fiber.New()
	ctrl := NewReportController(service.New(db))
	app.Get("/reports/classes/:id/export", ctrl.ExportClassReport)

	resp, err := app.Test(httptest.NewRequest("GET", "/reports/classes/"+class.ClassID.String()+"/export", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	cd := resp.Header.Get(fiber.HeaderContentDisposition)
	if cd != `attachment; filename="attendance_Fen_____9.xlsx"` {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if strings.Count(cd, `"`) != 2 {
		t.Fatalf("filename not safely quoted: %q", cd)
	}
}
