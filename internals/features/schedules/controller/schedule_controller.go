package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"attendance_backend/internals/features/schedules/dto"
	"attendance_backend/internals/features/schedules/service"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/helpers/dbtime"
)

type ScheduleController struct {
	Svc      *service.ScheduleService
	Validate *validator.Validate
}

func NewScheduleController(svc *service.ScheduleService) *ScheduleController {
	return &ScheduleController{Svc: svc, Validate: helper.NewValidator()}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return helper.ParseUUIDParam(c, "id")
}

func fail(c *fiber.Ctx, err error, input any) error {
	return helper.WriteServiceError(c, err, input, helperAuth.DefaultPathFor(c))
}

// GET /api/a/schedules?teacher_id=&class_id=&weekday=&active=
func (sc *ScheduleController) List(c *fiber.Ctx) error {
	var (
		f   service.ScheduleFilter
		err error
	)
	if f.TeacherID, err = helper.ParseUUIDQuery(c, "teacher_id"); err != nil {
		return err
	}
	if f.ClassID, err = helper.ParseUUIDQuery(c, "class_id"); err != nil {
		return err
	}
	if raw := strings.TrimSpace(c.Query("weekday")); raw != "" {
		wd, err := strconv.Atoi(raw)
		if err != nil || wd < 1 || wd > 7 {
			return fiber.NewError(fiber.StatusBadRequest, "weekday must be 1..7")
		}
		f.Weekday = wd
	}
	f.IsActive = helper.ParseBoolQuery(c, "active")

	pg := helper.ParseFiber(c, "weekday", "asc", helper.DefaultOpts)
	rows, total, err := sc.Svc.List(c.UserContext(), f, pg)
	if err != nil {
		return fail(c, err, c.Queries())
	}
	return helper.JsonList(c, "schedule entries", rows, pg.Pagination(total))
}

// GET /api/a/schedules/:id
func (sc *ScheduleController) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	out, err := sc.Svc.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, nil)
	}
	return helper.JsonOK(c, "schedule entry", out)
}

// POST /api/a/schedules
func (sc *ScheduleController) Create(c *fiber.Ctx) error {
	var req dto.CreateScheduleRequest
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
	return helper.JsonCreated(c, "schedule entry created", out)
}

// PATCH /api/a/schedules/:id
func (sc *ScheduleController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateScheduleRequest
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
	return helper.JsonUpdated(c, "schedule entry updated", out)
}

// DELETE /api/a/schedules/:id
func (sc *ScheduleController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := sc.Svc.Delete(c.UserContext(), id); err != nil {
		return fail(c, err, fiber.Map{"id": id})
	}
	return helper.JsonDeleted(c, "schedule entry deleted", fiber.Map{"id": id})
}

// GET /api/t/schedules/today
func (sc *ScheduleController) Today(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	day, rows, err := sc.Svc.Today(c.UserContext(), p)
	if err != nil {
		return fail(c, err, nil)
	}
	return helper.JsonOK(c, "today's schedule", fiber.Map{
		"date":    day.Format(dbtime.DateLayout),
		"weekday": dbtime.Weekday(day),
		"entries": rows,
	})
}
