package route

import (
	dashboardController "attendance_backend/internals/features/dashboard/controller"
	"attendance_backend/internals/features/dashboard/service"

	"github.com/gofiber/fiber/v2"
)

// DashboardAdminRoutes mounts under /api/a.
func DashboardAdminRoutes(r fiber.Router, svc *service.DashboardService) {
	ctrl := dashboardController.NewDashboardController(svc)
	r.Get("/dashboard", ctrl.Admin)
}

// DashboardTeacherRoutes mounts under /api/t.
func DashboardTeacherRoutes(r fiber.Router, svc *service.DashboardService) {
	ctrl := dashboardController.NewDashboardController(svc)
	r.Get("/dashboard", ctrl.Teacher)
}
