package helper

import (
	"strings"

	"attendance_backend/internals/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys filled by the JWT middleware.
const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocUserName = "user_name"
)

// Principal is the authenticated caller handed to every service call.
type Principal struct {
	ID   uuid.UUID
	Role constants.Role
}

func (p Principal) IsAdmin() bool { return p.Role.IsAdmin() }

// CanActFor reports whether p may act on something owned by ownerID.
func (p Principal) CanActFor(ownerID uuid.UUID) bool {
	return p.IsAdmin() || (p.ID != uuid.Nil && p.ID == ownerID)
}

// GetUserIDFromToken reads c.Locals("user_id").
// 401 when absent, 400 when malformed.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
	}

	var s string
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
		}
		return t, nil
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid user id in token")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid user id in token")
	}
	return id, nil
}

// CurrentPrincipal builds the Principal from request locals.
func CurrentPrincipal(c *fiber.Ctx) (Principal, error) {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return Principal{}, err
	}
	raw, _ := c.Locals(LocUserRole).(string)
	role := constants.Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return Principal{}, fiber.NewError(fiber.StatusForbidden, "unknown role")
	}
	return Principal{ID: id, Role: role}, nil
}

// DefaultPathFor is the caller's landing view, used as redirect_to on 403.
func DefaultPathFor(c *fiber.Ctx) string {
	raw, _ := c.Locals(LocUserRole).(string)
	return constants.DefaultPath(constants.Role(raw))
}
