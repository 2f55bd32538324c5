package domain

import (
	"errors"
	"time"
)

// Role is the closed set of access levels a user can hold.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrAccountInactive = errors.New("account has been deactivated")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrUserExists = errors.New("username or email already taken")
var ErrUserNotFound = errors.New("user not found")
var ErrForbidden = errors.New("access forbidden")
var ErrSelfAction = errors.New("operation not allowed on own account")
var ErrInvalidInput = errors.New("invalid input")
var ErrTooManyAttempts = errors.New("too many login attempts")

// Age bounds enforced on registration and updates.
const (
	AgeMin = 0
	AgeMax = 120
)

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Age          *int      `json:"age,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName is derived from the stored names at read time; it is never
// persisted, so it always reflects the latest first/last name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the elevated role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserStats aggregates account counts for the admin dashboard.
type UserStats struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveUsers    int64 `json:"active_users"`
	InactiveUsers  int64 `json:"inactive_users"`
	AdminUsers     int64 `json:"admin_users"`
	ModeratorUsers int64 `json:"moderator_users"`
	RegularUsers   int64 `json:"regular_users"`
}
