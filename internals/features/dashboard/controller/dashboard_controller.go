package controller

import (
	"github.com/gofiber/fiber/v2"

	"attendance_backend/internals/features/dashboard/service"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"
)

type DashboardController struct {
	Svc *service.DashboardService
}

func NewDashboardController(svc *service.DashboardService) *DashboardController {
	return &DashboardController{Svc: svc}
}

// GET /api/a/dashboard
func (dc *DashboardController) Admin(c *fiber.Ctx) error {
	out, err := dc.Svc.Admin(c.UserContext())
	if err != nil {
		return helper.WriteServiceError(c, err, nil, helperAuth.DefaultPathFor(c))
	}
	return helper.JsonOK(c, "dashboard", out)
}

// GET /api/t/dashboard
func (dc *DashboardController) Teacher(c *fiber.Ctx) error {
	p, err := helperAuth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	out, err := dc.Svc.Teacher(c.UserContext(), p)
	if err != nil {
		return helper.WriteServiceError(c, err, nil, helperAuth.DefaultPathFor(c))
	}
	return helper.JsonOK(c, "dashboard", out)
}
