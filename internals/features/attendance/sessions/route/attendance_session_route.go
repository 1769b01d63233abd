package route

import (
	"attendance_backend/internals/features/attendance/sessions/controller"
	"attendance_backend/internals/features/attendance/sessions/service"

	"github.com/gofiber/fiber/v2"
)

// AttendanceTeacherRoutes mounts under /api/t (teachers and administrators).
func AttendanceTeacherRoutes(r fiber.Router, svc *service.Service) {
	ctrl := controller.NewAttendanceSessionController(svc)

	g := r.Group("/attendance/sessions")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.UpdateTopic)
	g.Put("/:id/records", ctrl.Record)
	g.Post("/:id/records", ctrl.Record)
	g.Patch("/:id/records/:student_id", ctrl.MarkOne)
}

// AttendanceAdminRoutes mounts under /api/a.
func AttendanceAdminRoutes(r fiber.Router, svc *service.Service) {
	ctrl := controller.NewAttendanceSessionController(svc)

	g := r.Group("/attendance")
	g.Get("/sessions", ctrl.List)
	g.Get("/sessions/:id", ctrl.Get)
	g.Patch("/sessions/:id", ctrl.UpdateTopic)
	g.Delete("/sessions/:id", ctrl.Delete)
	g.Post("/purge", ctrl.Purge)
	g.Get("/settings", ctrl.Settings)
}
