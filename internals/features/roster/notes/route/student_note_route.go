package route

import (
	noteController "attendance_backend/internals/features/roster/notes/controller"
	"attendance_backend/internals/features/roster/notes/service"

	"github.com/gofiber/fiber/v2"
)

// NoteAdminRoutes mounts under /api/a.
func NoteAdminRoutes(r fiber.Router, svc *service.NoteService) {
	ctrl := noteController.NewNoteController(svc)

	g := r.Group("/students/:id/notes")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:note_id", ctrl.Get)
	g.Patch("/:note_id", ctrl.Update)
	g.Delete("/:note_id", ctrl.Delete)
}
