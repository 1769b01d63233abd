package controller

import (
	"fmt"
	"strings"

	"attendance_backend/internals/features/attendance/reports/service"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
	"attendance_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportController struct {
	Svc *service.Service
}

func NewReportController(svc *service.Service) *ReportController {
	return &ReportController{Svc: svc}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return helper.ParseUUIDParam(c, "id")
}

// parseRange reads ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func parseRange(c *fiber.Ctx) (service.DateRange, map[string][]string) {
	var r service.DateRange
	errs := map[string][]string{}
	from, err := dbtime.ParseDatePtr(c.Query("from"))
	if err != nil {
		errs["from"] = []string{err.Error()}
	}
	to, err := dbtime.ParseDatePtr(c.Query("to"))
	if err != nil {
		errs["to"] = []string{err.Error()}
	}
	if from != nil && to != nil && to.Before(*from) {
		errs["to"] = append(errs["to"], "must not be before from")
	}
	if len(errs) > 0 {
		return r, errs
	}
	r.From, r.To = from, to
	return r, nil
}

// exportFileName keeps ASCII letters, digits, dots and dashes of the class
// name so the value is safe inside a quoted Content-Disposition filename.
func exportFileName(className string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, strings.TrimSpace(className))
	if strings.Trim(safe, "_.") == "" {
		safe = "class"
	}
	return fmt.Sprintf("attendance_%s.xlsx", safe)
}

func fail(c *fiber.Ctx, err error) error {
	return helper.WriteServiceError(c, err, c.Queries(), helperAuth.DefaultPathFor(c))
}

// GET /api/t/attendance/sessions/:id/summary
func (ctrl *ReportController) SessionSummary(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	counts, err := ctrl.Svc.SessionSummary(c.UserContext(), p, id)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"counts":       counts,
		"absence_rate": counts.AbsenceRate(),
	})
}

// GET /api/a/reports/students/:id?from=&to=
func (ctrl *ReportController) StudentReport(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, errs := parseRange(c)
	if errs != nil {
		return helper.JsonValidationError(c, errs, c.Queries())
	}
	rep, err := ctrl.Svc.StudentReport(c.UserContext(), id, r)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", rep)
}

// GET /api/a/reports/classes/:id?from=&to=
func (ctrl *ReportController) ClassReport(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, errs := parseRange(c)
	if errs != nil {
		return helper.JsonValidationError(c, errs, c.Queries())
	}
	rep, err := ctrl.Svc.ClassReport(c.UserContext(), id, r)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", rep)
}

// GET /api/a/reports/classes/:id/export?from=&to=
func (ctrl *ReportController) ExportClassReport(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, errs := parseRange(c)
	if errs != nil {
		return helper.JsonValidationError(c, errs, c.Queries())
	}
	f, rep, err := ctrl.Svc.ExportClassReport(c.UserContext(), id, r)
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build workbook")
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+exportFileName(rep.ClassName)+`"`)
	return c.Send(buf.Bytes())
}
