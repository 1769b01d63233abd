package routes

import (
	"log"
	"time"

	"attendance_backend/internals/configs"
	"attendance_backend/internals/constants"
	sessionService "attendance_backend/internals/features/attendance/sessions/service"
	noteService "attendance_backend/internals/features/roster/notes/service"
	scheduleService "attendance_backend/internals/features/schedules/service"
	authMiddleware "attendance_backend/internals/middlewares/auth"
	routeDetails "attendance_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

// SetupRoutes mounts every group. attendance is shared with the retention
// scheduler started by main.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *configs.Config, attendance *sessionService.Service) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db, cfg)

	// ===================== GROUPS =====================
	log.Println("[INFO] Setting up TEACHER group (Auth + teacher or admin)...")
	teacher := app.Group("/api/t",
		authMiddleware.AuthMiddleware(db, cfg.JWTSecret),
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("this page"), constants.TeacherAndAbove...),
	)

	log.Println("[INFO] Setting up ADMIN group (Auth + admin only)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db, cfg.JWTSecret),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("this page"), constants.AdminOnly...),
	)

	schedules := scheduleService.NewScheduleService(db, cfg)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Attendance routes...")
	routeDetails.AttendanceTeacherRoutes(teacher, attendance)
	routeDetails.AttendanceAdminRoutes(admin, attendance)

	log.Println("[INFO] Mounting Schedule routes...")
	routeDetails.ScheduleTeacherRoutes(teacher, schedules)
	routeDetails.ScheduleAdminRoutes(admin, schedules)

	log.Println("[INFO] Mounting Roster routes...")
	routeDetails.RosterAdminRoutes(admin, db, noteService.NewNoteService(db, cfg))

	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserAdminRoutes(admin, db)
}
