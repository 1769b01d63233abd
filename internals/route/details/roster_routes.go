package details

import (
	classRoute "attendance_backend/internals/features/roster/classes/route"
	noteRoute "attendance_backend/internals/features/roster/notes/route"
	noteService "attendance_backend/internals/features/roster/notes/service"
	studentRoute "attendance_backend/internals/features/roster/students/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func RosterAdminRoutes(admin fiber.Router, db *gorm.DB, notes *noteService.NoteService) {
	classRoute.ClassAdminRoutes(admin, db)
	studentRoute.StudentAdminRoutes(admin, db)
	noteRoute.NoteAdminRoutes(admin, notes)
}
