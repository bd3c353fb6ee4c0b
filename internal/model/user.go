package model

// Role is a membership API account role. Unknown values pass through
// unchanged but grant no area access.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOffice Role = "lgst"
	RoleBoard  Role = "vorstand"
	RoleUser   Role = "user"
)

// Roles lists the known roles in display order.
var Roles = []Role{RoleAdmin, RoleOffice, RoleBoard, RoleUser}

// Known reports whether r is one of the roles the backend defines.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleOffice, RoleBoard, RoleUser:
		return true
	default:
		return false
	}
}

// Label returns the German display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleOffice:
		return "Landesgeschäftsstelle"
	case RoleBoard:
		return "Landesvorstand"
	case RoleUser:
		return "User"
	default:
		return string(r)
	}
}

// CanAccessOffice reports access to user management, audit log and mail.
func (r Role) CanAccessOffice() bool {
	return r == RoleAdmin || r == RoleOffice
}

// CanAccessBoard reports access to the board calendar and tasks.
func (r Role) CanAccessBoard() bool {
	return r == RoleAdmin || r == RoleBoard
}

// User is an account as listed by the membership API.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// CreateUserParams contains parameters to create an account.
type CreateUserParams struct {
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Password string `json:"password"`
}

// UpdateUserParams contains parameters to update an account. An empty
// Password is left out of the payload so the stored password is kept.
type UpdateUserParams struct {
	Role     Role   `json:"role"`
	Password string `json:"password,omitempty"`
}
