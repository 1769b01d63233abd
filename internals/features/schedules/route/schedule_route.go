package route

import (
	scheduleController "attendance_backend/internals/features/schedules/controller"
	"attendance_backend/internals/features/schedules/service"

	"github.com/gofiber/fiber/v2"
)

// ScheduleAdminRoutes mounts under /api/a.
func ScheduleAdminRoutes(r fiber.Router, svc *service.ScheduleService) {
	ctrl := scheduleController.NewScheduleController(svc)

	g := r.Group("/schedules")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}

// ScheduleTeacherRoutes mounts under /api/t.
func ScheduleTeacherRoutes(r fiber.Router, svc *service.ScheduleService) {
	ctrl := scheduleController.NewScheduleController(svc)

	r.Get("/schedules/today", ctrl.Today)
}
