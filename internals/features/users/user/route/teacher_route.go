package route

import (
	userController "attendance_backend/internals/features/users/user/controller"
	"attendance_backend/internals/features/users/user/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TeacherAdminRoutes mounts under /api/a.
func TeacherAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := userController.NewTeacherController(service.NewTeacherService(db))

	g := r.Group("/teachers")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Update)
	g.Post("/:id/deactivate", ctrl.SetActive(false))
	g.Post("/:id/activate", ctrl.SetActive(true))
	g.Delete("/:id", ctrl.Delete)
}
