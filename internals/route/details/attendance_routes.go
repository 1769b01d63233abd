package details

import (
	reportRoute "attendance_backend/internals/features/attendance/reports/route"
	sessionRoute "attendance_backend/internals/features/attendance/sessions/route"
	sessionService "attendance_backend/internals/features/attendance/sessions/service"

	"github.com/gofiber/fiber/v2"
)

func AttendanceTeacherRoutes(teacher fiber.Router, svc *sessionService.Service) {
	sessionRoute.AttendanceTeacherRoutes(teacher, svc)
	reportRoute.ReportTeacherRoutes(teacher, svc.DB)
}

func AttendanceAdminRoutes(admin fiber.Router, svc *sessionService.Service) {
	sessionRoute.AttendanceAdminRoutes(admin, svc)
	reportRoute.ReportAdminRoutes(admin, svc.DB)
}
