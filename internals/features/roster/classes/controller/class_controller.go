package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"attendance_backend/internals/features/roster/classes/dto"
	"attendance_backend/internals/features/roster/classes/service"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
)

type ClassController struct {
	Svc      *service.ClassService
	Validate *validator.Validate
}

func NewClassController(svc *service.ClassService) *ClassController {
	return &ClassController{Svc: svc, Validate: helper.NewValidator()}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return helper.ParseUUIDParam(c, "id")
}

func fail(c *fiber.Ctx, err error, input any) error {
	return helper.WriteServiceError(c, err, input, helperAuth.DefaultPathFor(c))
}

// GET /api/a/classes?q=&page=&per_page=
func (cc *ClassController) List(c *fiber.Ctx) error {
	pg := helper.ParseFiber(c, "class_name", "asc", helper.DefaultOpts)
	rows, total, err := cc.Svc.List(c.UserContext(), c.Query("q"), pg)
	if err != nil {
		return fail(c, err, c.Queries())
	}
	return helper.JsonList(c, "classes", rows, pg.Pagination(total))
}

// GET /api/a/classes/:id
func (cc *ClassController) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	out, err := cc.Svc.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, nil)
	}
	return helper.JsonOK(c, "class", out)
}

// POST /api/a/classes
func (cc *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), req)
	}
	out, err := cc.Svc.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err, req)
	}
	return helper.JsonCreated(c, "class created", out)
}

// PATCH /api/a/classes/:id
func (cc *ClassController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), req)
	}
	out, err := cc.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err, req)
	}
	return helper.JsonUpdated(c, "class updated", out)
}

// DELETE /api/a/classes/:id
func (cc *ClassController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := cc.Svc.Delete(c.UserContext(), id); err != nil {
		return fail(c, err, fiber.Map{"id": id})
	}
	return helper.JsonDeleted(c, "class deleted", fiber.Map{"id": id})
}
