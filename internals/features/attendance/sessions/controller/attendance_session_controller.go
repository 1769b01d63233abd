// internals/features/attendance/sessions/controller/attendance_session_controller.go
package controller

import (
	"strings"
	"time"

	sessionDTO "attendance_backend/internals/features/attendance/sessions/dto"
	sessionModel "attendance_backend/internals/features/attendance/sessions/model"
	"attendance_backend/internals/features/attendance/sessions/service"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ===============================
   Controller & Constructor
=============================== */

type AttendanceSessionController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewAttendanceSessionController(svc *service.Service) *AttendanceSessionController {
	return &AttendanceSessionController{Svc: svc, Validate: helper.NewValidator()}
}

func fail(c *fiber.Ctx, err error, input any) error {
	return helper.WriteServiceError(c, err, input, helperAuth.DefaultPathFor(c))
}

// flatFields collects status_<id>/note_<id> keys from a JSON or form body.
func flatFields(c *fiber.Ctx) map[string]string {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	if strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
		var body map[string]any
		if len(c.Body()) == 0 {
			return nil
		}
		if err := c.App().Config().JSONDecoder(c.Body(), &body); err != nil {
			return nil
		}
		return sessionDTO.FlatFields(body)
	}
	out := map[string]string{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		out[string(k)] = string(v)
	})
	return out
}

/* ===============================
   CREATE
=============================== */

// POST /api/t/attendance/sessions
func (ctrl *AttendanceSessionController) Create(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var req sessionDTO.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), req)
	}

	marks := sessionDTO.ParseMarks(req.Marks, flatFields(c))

	date, err := dbtime.ParseDatePtr(req.Date)
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"date": {err.Error()}}, req)
	}

	res, err := ctrl.Svc.CreateSession(c.UserContext(), p, service.CreateInput{
		ScheduleID: uuid.MustParse(req.ScheduleID),
		Date:       date,
		Topic:      req.Topic,
		Marks:      marks,
	})
	if err != nil {
		return fail(c, err, req)
	}

	out := sessionDTO.CreateSessionResponse{
		Session: sessionDTO.FromSessionModel(res.Session),
		Created: res.Created,
		Records: res.Records,
	}
	if !res.Created {
		return helper.JsonOK(c, "attendance for this lesson was already taken", out)
	}
	return helper.JsonCreated(c, "attendance session created", out)
}

/* ===============================
   CAPTURE / CORRECTION
=============================== */

// PUT /api/t/attendance/sessions/:id/records
func (ctrl *AttendanceSessionController) Record(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req sessionDTO.RecordAttendanceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
	}
	flat := flatFields(c)
	marks := sessionDTO.ParseMarks(req.Marks, flat)

	res, err := ctrl.Svc.RecordAttendance(c.UserContext(), p, id, marks)
	if err != nil {
		return fail(c, err, fiber.Map{"marks": req.Marks, "fields": flat})
	}
	return helper.JsonUpdated(c, "attendance saved", fiber.Map{
		"session": sessionDTO.FromSessionModel(res.Session),
		"saved":   res.Saved,
	})
}

// PATCH /api/t/attendance/sessions/:id/records/:student_id
func (ctrl *AttendanceSessionController) MarkOne(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return err
	}

	var req sessionDTO.MarkOneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	mark := sessionModel.Mark{
		Status: sessionModel.AttendanceStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		Remark: req.Remark,
	}

	rec, err := ctrl.Svc.MarkOne(c.UserContext(), p, id, studentID, mark)
	if err != nil {
		return fail(c, err, req)
	}
	return helper.JsonUpdated(c, "attendance record updated", sessionDTO.FromRecordModel(*rec))
}

// PATCH /api/t/attendance/sessions/:id
func (ctrl *AttendanceSessionController) UpdateTopic(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req sessionDTO.UpdateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	sess, err := ctrl.Svc.UpdateTopic(c.UserContext(), p, id, req.Topic)
	if err != nil {
		return fail(c, err, req)
	}
	return helper.JsonUpdated(c, "topic updated", sessionDTO.FromSessionModel(*sess))
}

/* ===============================
   READ
=============================== */

// GET /api/t/attendance/sessions/:id
func (ctrl *AttendanceSessionController) Get(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	d, err := ctrl.Svc.GetSession(c.UserContext(), p, id)
	if err != nil {
		return fail(c, err, nil)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"session": sessionDTO.FromSessionModel(d.Session),
		"records": d.Records,
	})
}

// GET /api/t/attendance/sessions?class_id=&teacher_id=&date=&from=&to=
func (ctrl *AttendanceSessionController) List(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var f service.ListFilter
	fieldErrs := map[string][]string{}
	for _, key := range []string{"teacher_id", "class_id"} {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			fieldErrs[key] = []string{"must be a valid id"}
			continue
		}
		if key == "teacher_id" {
			f.TeacherID = &id
		} else {
			f.ClassID = &id
		}
	}
	for key, dst := range map[string]**time.Time{"date": &f.Date, "from": &f.From, "to": &f.To} {
		t, err := dbtime.ParseDatePtr(c.Query(key))
		if err != nil {
			fieldErrs[key] = []string{err.Error()}
			continue
		}
		*dst = t
	}
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs, c.Queries())
	}

	pg := helper.ParseFiber(c, "date", "desc", helper.SessionsOpts)
	rows, total, err := ctrl.Svc.ListSessions(c.UserContext(), p, f, pg)
	if err != nil {
		return fail(c, err, nil)
	}
	return helper.JsonList(c, "ok", rows, pg.Pagination(total))
}

/* ===============================
   DELETE / MAINTENANCE
=============================== */

// DELETE /api/a/attendance/sessions/:id
func (ctrl *AttendanceSessionController) Delete(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := ctrl.Svc.DeleteSession(c.UserContext(), p, id); err != nil {
		return fail(c, err, nil)
	}
	return helper.JsonDeleted(c, "attendance session deleted", fiber.Map{"attendance_session_id": id})
}

// POST /api/a/attendance/purge
func (ctrl *AttendanceSessionController) Purge(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	var req sessionDTO.PurgeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), req)
	}
	cutoff, err := dbtime.ParseDate(req.Before)
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"before": {err.Error()}}, req)
	}
	res, err := ctrl.Svc.PurgeBefore(c.UserContext(), p, cutoff)
	if err != nil {
		return fail(c, err, req)
	}
	return helper.JsonOK(c, "old attendance purged", res)
}

// GET /api/a/attendance/settings
func (ctrl *AttendanceSessionController) Settings(c *fiber.Ctx) error {
	out, err := ctrl.Svc.SettingsSummary(c.UserContext())
	if err != nil {
		return fail(c, err, nil)
	}
	return helper.JsonOK(c, "ok", out)
}
