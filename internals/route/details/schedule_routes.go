package details

import (
	dashboardRoute "attendance_backend/internals/features/dashboard/route"
	dashboardService "attendance_backend/internals/features/dashboard/service"
	scheduleRoute "attendance_backend/internals/features/schedules/route"
	scheduleService "attendance_backend/internals/features/schedules/service"

	"github.com/gofiber/fiber/v2"
)

func ScheduleTeacherRoutes(teacher fiber.Router, svc *scheduleService.ScheduleService) {
	scheduleRoute.ScheduleTeacherRoutes(teacher, svc)
	dashboardRoute.DashboardTeacherRoutes(teacher, dashboardService.NewDashboardService(svc.DB, svc))
}

func ScheduleAdminRoutes(admin fiber.Router, svc *scheduleService.ScheduleService) {
	scheduleRoute.ScheduleAdminRoutes(admin, svc)
	dashboardRoute.DashboardAdminRoutes(admin, dashboardService.NewDashboardService(svc.DB, svc))
}
