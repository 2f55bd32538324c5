package ports

import (
	"context"

	"github.com/accountd/user-directory/internal/core/domain"
)

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ListUsersFilter carries all query parameters for listing users.
// Predicates combine with logical AND; substring predicates are
// case-insensitive; the age range is inclusive on both bounds.
type ListUsersFilter struct {
	Username string      // optional: substring match on username
	Email    string      // optional: substring match on email
	Role     domain.Role // optional: exact match
	IsActive *bool       // optional: exact match
	AgeMin   *int        // optional: age >= AgeMin
	AgeMax   *int        // optional: age <= AgeMax

	SortField string    // empty = created_at
	SortOrder SortOrder // empty = DESC
	Offset    int
	Limit     int
}

// CountFilter selects the subset of users an aggregate count applies to.
// Zero value counts the whole collection.
type CountFilter struct {
	Role     domain.Role
	IsActive *bool
}

// UserUpdate is a field-level partial update. Nil fields are left untouched;
// the repository always advances updated_at.
type UserUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Age       *int
	Role      *domain.Role
	IsActive  *bool
}

// IsZero reports whether the update would change nothing.
func (u UserUpdate) IsZero() bool {
	return u.Username == nil && u.Email == nil && u.FirstName == nil &&
		u.LastName == nil && u.Age == nil && u.Role == nil && u.IsActive == nil
}

// UserRepository is the persistence facade the services depend on. It hides
// storage engine specifics; uniqueness of username and email is enforced by
// the store itself, not only by application-level pre-checks.
type UserRepository interface {
	// Find returns one page of users matching filter plus the total match count.
	Find(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail looks a user up by exact (lowercased) email. The returned
	// user includes the password hash for credential comparison.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByUsernameOrEmail returns a user matching either unique key,
	// used for duplicate checks before registration.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	// Insert persists a new user and returns it with its assigned ID.
	// Returns domain.ErrUserExists on a username or email collision.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateByID applies a partial update and returns the updated user.
	// Returns domain.ErrUserNotFound when id does not resolve.
	UpdateByID(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	// DeleteByID removes a user. Reports whether a record was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
	// Search matches query case-insensitively against username, email,
	// first name, and last name (logical OR), returning at most limit users.
	Search(ctx context.Context, query string, limit int) ([]*domain.User, error)
	// Count returns the number of users matching filter.
	Count(ctx context.Context, filter CountFilter) (int64, error)
}
