package constants

import "fmt"

// Role is the single role a user holds.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleTeacher       Role = "teacher"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleTeacher
}

func (r Role) IsAdmin() bool { return r == RoleAdministrator }

// Role error message templates
const (
	ErrOnlyTeachersCanAccess = "Only teachers or administrators may access %s."
	ErrOnlyAdminsCanAccess   = "Only administrators may access %s."
)

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []Role{
		RoleAdministrator,
		RoleTeacher,
	}

	TeacherAndAbove = []Role{
		RoleTeacher,
		RoleAdministrator,
	}

	AdminOnly = []Role{
		RoleAdministrator,
	}
)

// DefaultPath is where a principal of the given role is sent when a
// request is refused.
func DefaultPath(r Role) string {
	if r.IsAdmin() {
		return "/api/a/dashboard"
	}
	return "/api/t/dashboard"
}
