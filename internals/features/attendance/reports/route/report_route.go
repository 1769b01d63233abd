package route

import (
	"attendance_backend/internals/features/attendance/reports/controller"
	"attendance_backend/internals/features/attendance/reports/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReportTeacherRoutes mounts under /api/t.
func ReportTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewReportController(service.New(db))
	r.Get("/attendance/sessions/:id/summary", ctrl.SessionSummary)
}

// ReportAdminRoutes mounts under /api/a.
func ReportAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewReportController(service.New(db))

	g := r.Group("/reports")
	g.Get("/students/:id", ctrl.StudentReport)
	g.Get("/classes/:id", ctrl.ClassReport)
	g.Get("/classes/:id/export", ctrl.ExportClassReport)
	r.Get("/attendance/sessions/:id/summary", ctrl.SessionSummary)
}
