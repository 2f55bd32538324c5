package handler

import (
	"time"

	"github.com/accountd/user-directory/internal/core/domain"
)

// --- Request types ---

type registerRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=30"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Age       *int   `json:"age,omitempty" validate:"omitempty,gte=0,lte=120"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// updateProfileRequest is the self-service update shape. There is no role
// field here, so a role supplied in the payload is unknown to the decoder and
// cannot reach the store.
type updateProfileRequest struct {
	Username  *string `json:"username,omitempty"   validate:"omitempty,min=3,max=30"`
	Email     *string `json:"email,omitempty"      validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,min=1"`
	Age       *int    `json:"age,omitempty"        validate:"omitempty,gte=0,lte=120"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

type adminUpdateUserRequest struct {
	Username  *string `json:"username,omitempty"   validate:"omitempty,min=3,max=30"`
	Email     *string `json:"email,omitempty"      validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,min=1"`
	Age       *int    `json:"age,omitempty"        validate:"omitempty,gte=0,lte=120"`
	Role      *string `json:"role,omitempty"       validate:"omitempty,oneof=USER ADMIN MODERATOR"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN MODERATOR"`
}

// --- Response types ---

// userResponse is the external user view. The password hash never appears;
// full_name is computed from the stored names at render time.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Age       *int      `json:"age,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Age:       u.Age,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type listUsersResponse struct {
	Users           []userResponse `json:"users"`
	TotalCount      int64          `json:"total_count"`
	HasNextPage     bool           `json:"has_next_page"`
	HasPreviousPage bool           `json:"has_previous_page"`
}

type searchUsersResponse struct {
	Users []userResponse `json:"users"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
