package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"attendance_backend/internals/features/roster/students/dto"
	"attendance_backend/internals/features/roster/students/service"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
)

type StudentController struct {
	Svc      *service.StudentService
	Validate *validator.Validate
}

func NewStudentController(svc *service.StudentService) *StudentController {
	return &StudentController{Svc: svc, Validate: helper.NewValidator()}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return helper.ParseUUIDParam(c, "id")
}

func fail(c *fiber.Ctx, err error, input any) error {
	return helper.WriteServiceError(c, err, input, helperAuth.DefaultPathFor(c))
}

func parseFilter(c *fiber.Ctx) (service.StudentFilter, error) {
	classID, err := helper.ParseUUIDQuery(c, "class_id")
	if err != nil {
		return service.StudentFilter{}, err
	}
	return service.StudentFilter{
		ClassID:  classID,
		IsActive: helper.ParseBoolQuery(c, "active"),
		Q:        c.Query("q"),
	}, nil
}

// GET /api/a/students?class_id=&active=1|0&q=&page=&per_page=
func (sc *StudentController) List(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}
	pg := helper.ParseFiber(c, "last_name", "asc", helper.DefaultOpts)
	rows, total, err := sc.Svc.List(c.UserContext(), f, pg)
	if err != nil {
		return fail(c, err, c.Queries())
	}
	return helper.JsonList(c, "students", rows, pg.Pagination(total))
}

// GET /api/a/students/:id
func (sc *StudentController) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	out, err := sc.Svc.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, nil)
	}
	return helper.JsonOK(c, "student", out)
}

// POST /api/a/students
func (sc *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := sc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), req)
	}
	out, err := sc.Svc.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err, req)
	}
	return helper.JsonCreated(c, "student created", out)
}

// PATCH /api/a/students/:id
func (sc *StudentController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := sc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), req)
	}
	out, err := sc.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err, req)
	}
	return helper.JsonUpdated(c, "student updated", out)
}

// DELETE /api/a/students/:id
func (sc *StudentController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := sc.Svc.Delete(c.UserContext(), id); err != nil {
		return fail(c, err, fiber.Map{"id": id})
	}
	return helper.JsonDeleted(c, "student deleted", fiber.Map{"id": id})
}
