package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"attendance_backend/internals/features/users/user/dto"
	"attendance_backend/internals/features/users/user/service"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
)

type TeacherController struct {
	Svc      *service.TeacherService
	Validate *validator.Validate
}

func NewTeacherController(svc *service.TeacherService) *TeacherController {
	return &TeacherController{Svc: svc, Validate: helper.NewValidator()}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return helper.ParseUUIDParam(c, "id")
}

func fail(c *fiber.Ctx, err error, input any) error {
	return helper.WriteServiceError(c, err, input, helperAuth.DefaultPathFor(c))
}

// GET /api/a/teachers?q=&active=&page=&per_page=
func (tc *TeacherController) List(c *fiber.Ctx) error {
	pg := helper.ParseFiber(c, "full_name", "asc", helper.DefaultOpts)
	rows, total, err := tc.Svc.List(c.UserContext(), service.TeacherFilter{
		Q:        c.Query("q"),
		IsActive: helper.ParseBoolQuery(c, "active"),
	}, pg)
	if err != nil {
		return fail(c, err, c.Queries())
	}
	return helper.JsonList(c, "teachers", rows, pg.Pagination(total))
}

// GET /api/a/teachers/:id
func (tc *TeacherController) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	out, err := tc.Svc.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, nil)
	}
	return helper.JsonOK(c, "teacher", out)
}

// POST /api/a/teachers
func (tc *TeacherController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	echo := req
	echo.Password = ""
	if err := tc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), echo)
	}
	out, err := tc.Svc.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err, echo)
	}
	return helper.JsonCreated(c, "teacher created", out)
}

// PATCH /api/a/teachers/:id
func (tc *TeacherController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	echo := req
	echo.Password = nil
	if err := tc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), echo)
	}
	out, err := tc.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err, echo)
	}
	return helper.JsonUpdated(c, "teacher updated", out)
}

// POST /api/a/teachers/:id/deactivate and /activate
func (tc *TeacherController) SetActive(active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		out, err := tc.Svc.SetActive(c.UserContext(), id, active)
		if err != nil {
			return fail(c, err, nil)
		}
		return helper.JsonUpdated(c, "teacher updated", out)
	}
}

// DELETE /api/a/teachers/:id
func (tc *TeacherController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := tc.Svc.Delete(c.UserContext(), id); err != nil {
		return fail(c, err, fiber.Map{"id": id})
	}
	return helper.JsonDeleted(c, "teacher deleted", fiber.Map{"id": id})
}
