package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"attendance_backend/internals/features/roster/notes/dto"
	"attendance_backend/internals/features/roster/notes/service"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
)

type NoteController struct {
	Svc      *service.NoteService
	Validate *validator.Validate
}

func NewNoteController(svc *service.NoteService) *NoteController {
	return &NoteController{Svc: svc, Validate: helper.NewValidator()}
}

func parseIDs(c *fiber.Ctx) (studentID, noteID uuid.UUID, err error) {
	if studentID, err = helper.ParseUUIDParam(c, "id"); err != nil {
		return
	}
	noteID, err = helper.ParseUUIDParam(c, "note_id")
	return
}

func fail(c *fiber.Ctx, err error, input any) error {
	return helper.WriteServiceError(c, err, input, helperAuth.DefaultPathFor(c))
}

// GET /api/a/students/:id/notes?category=&page=&per_page=
func (nc *NoteController) List(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	pg := helper.ParseFiber(c, "date", "desc", helper.DefaultOpts)
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	rows, total, err := nc.Svc.List(c.UserContext(), studentID, category, pg)
	if err != nil {
		return fail(c, err, c.Queries())
	}
	return helper.JsonList(c, "notes", rows, pg.Pagination(total))
}

// GET /api/a/students/:id/notes/:note_id
func (nc *NoteController) Get(c *fiber.Ctx) error {
	studentID, noteID, err := parseIDs(c)
	if err != nil {
		return err
	}
	out, err := nc.Svc.Get(c.UserContext(), studentID, noteID)
	if err != nil {
		return fail(c, err, nil)
	}
	return helper.JsonOK(c, "note", out)
}

// POST /api/a/students/:id/notes
func (nc *NoteController) Create(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := nc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), req)
	}
	out, err := nc.Svc.Create(c.UserContext(), studentID, p.ID, req)
	if err != nil {
		return fail(c, err, req)
	}
	return helper.JsonCreated(c, "note created", out)
}

// PATCH /api/a/students/:id/notes/:note_id
func (nc *NoteController) Update(c *fiber.Ctx) error {
	studentID, noteID, err := parseIDs(c)
	if err != nil {
		return err
	}
	var req dto.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := nc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), req)
	}
	out, err := nc.Svc.Update(c.UserContext(), studentID, noteID, req)
	if err != nil {
		return fail(c, err, req)
	}
	return helper.JsonUpdated(c, "note updated", out)
}

// DELETE /api/a/students/:id/notes/:note_id
func (nc *NoteController) Delete(c *fiber.Ctx) error {
	studentID, noteID, err := parseIDs(c)
	if err != nil {
		return err
	}
	if err := nc.Svc.Delete(c.UserContext(), studentID, noteID); err != nil {
		return fail(c, err, fiber.Map{"id": noteID})
	}
	return helper.JsonDeleted(c, "note deleted", fiber.Map{"id": noteID})
}
