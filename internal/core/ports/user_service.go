package ports

import (
	"context"

	"github.com/accountd/user-directory/internal/core/domain"
)

// ListUsersInput carries the caller-supplied list spec. Defaults are applied
// by the service: limit 10, offset 0, sort created_at descending.
type ListUsersInput struct {
	Username  string
	Email     string
	Role      string
	IsActive  *bool
	AgeMin    *int
	AgeMax    *int
	SortField string
	SortOrder string
	Offset    int
	Limit     int
}

// ListUsersResult is one page of users plus pagination metadata.
type ListUsersResult struct {
	Users           []*domain.User
	TotalCount      int64
	HasNextPage     bool
	HasPreviousPage bool
}

// ProfileUpdateInput is the self-service update shape. It has no role field
// at all, so self-promotion is structurally impossible.
type ProfileUpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Age       *int
	IsActive  *bool
}

// AdminUpdateInput is the elevated update shape; it may additionally change
// role and active state of any user.
type AdminUpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Age       *int
	Role      *string
	IsActive  *bool
}

// UserService defines the query and management operations over the user
// collection. Access control (who may call what) is enforced at the transport
// layer; self-target policy is enforced here.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	Search(ctx context.Context, query string) ([]*domain.User, error)
	Stats(ctx context.Context) (*domain.UserStats, error)

	UpdateProfile(ctx context.Context, callerID string, input ProfileUpdateInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input AdminUpdateInput) (*domain.User, error)
	// DeleteUser removes a user. Callers cannot delete themselves.
	DeleteUser(ctx context.Context, callerID, id string) error
	// SetActive toggles the active flag. Deactivation of one's own account
	// through this operation is forbidden; activation has no self-restriction.
	SetActive(ctx context.Context, callerID, id string, active bool) (*domain.User, error)
	// ChangeRole overwrites the target's role. Self-target is forbidden.
	ChangeRole(ctx context.Context, callerID, id string, role domain.Role) (*domain.User, error)
}
