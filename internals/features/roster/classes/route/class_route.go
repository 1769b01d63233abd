package route

import (
	classController "attendance_backend/internals/features/roster/classes/controller"
	"attendance_backend/internals/features/roster/classes/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ClassAdminRoutes mounts under /api/a.
func ClassAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := classController.NewClassController(service.NewClassService(db))

	g := r.Group("/classes")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
