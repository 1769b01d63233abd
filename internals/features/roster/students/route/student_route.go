package route

import (
	studentController "attendance_backend/internals/features/roster/students/controller"
	"attendance_backend/internals/features/roster/students/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StudentAdminRoutes mounts under /api/a.
func StudentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := studentController.NewStudentController(service.NewStudentService(db))

	g := r.Group("/students")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
