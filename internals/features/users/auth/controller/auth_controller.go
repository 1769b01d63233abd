package controller

import (
	"errors"
	"time"

	"attendance_backend/internals/features/users/auth/service"
	helper "attendance_backend/internals/helpers"
	helperAuth "attendance_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewAuthController(svc *service.Service) *AuthController {
	return &AuthController{Svc: svc, Validate: helper.NewValidator()}
}

type loginRequest struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid input format")
	}
	if err := ac.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), fiber.Map{"identifier": req.Identifier})
	}

	res, err := ac.Svc.Login(c.UserContext(), req.Identifier, req.Password)
	switch {
	case errors.Is(err, service.ErrBadCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserInactive):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case err != nil:
		return helper.WriteServiceError(c, err, fiber.Map{"identifier": req.Identifier}, "")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    res.AccessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
		Expires:  res.ExpiresAt,
	})
	return helper.JsonOK(c, "login successful", res)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("access_token").(string)
	if err := ac.Svc.Logout(c.UserContext(), token); err != nil {
		return helper.WriteServiceError(c, err, nil, "")
	}
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
	})
	return helper.JsonOK(c, "logout successful", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	user, err := ac.Svc.Me(c.UserContext(), userID)
	if err != nil {
		return helper.WriteServiceError(c, err, nil, "")
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"id":          user.ID,
		"user_name":   user.UserName,
		"full_name":   user.FullName,
		"email":       user.Email,
		"role":        user.Role,
		"is_active":   user.IsActive,
		"redirect_to": helperAuth.DefaultPathFor(c),
	})
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid input format")
	}
	if err := ac.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationFields(err), nil)
	}
	if err := ac.Svc.ChangePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return helper.WriteServiceError(c, err, nil, helperAuth.DefaultPathFor(c))
	}
	return helper.JsonUpdated(c, "password changed", nil)
}
