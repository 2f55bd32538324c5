package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/accountd/user-directory/internal/core/domain"
	"github.com/accountd/user-directory/internal/core/ports"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
	searchLimit      = 20
)

// UserService implements the query and management operations.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns one page of users with pagination metadata. Defaults: limit 10,
// offset 0, sorted by creation time descending.
func (s *UserService) List(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	filter := ports.ListUsersFilter{
		Username:  input.Username,
		Email:     input.Email,
		IsActive:  input.IsActive,
		AgeMin:    input.AgeMin,
		AgeMax:    input.AgeMax,
		SortField: input.SortField,
		SortOrder: ports.SortDesc,
		Offset:    offset,
		Limit:     limit,
	}
	if input.Role != "" {
		role := domain.Role(strings.ToUpper(input.Role))
		if !role.Valid() {
			return nil, domain.ErrInvalidInput
		}
		filter.Role = role
	}
	if strings.EqualFold(input.SortOrder, string(ports.SortAsc)) {
		filter.SortOrder = ports.SortAsc
	}

	users, total, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListUsersResult{
		Users:           users,
		TotalCount:      total,
		HasNextPage:     int64(offset+limit) < total,
		HasPreviousPage: offset > 0,
	}, nil
}

// Search matches query against username, email, first name, and last name.
// Results are capped; there is no pagination.
func (s *UserService) Search(ctx context.Context, query string) ([]*domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.User{}, nil
	}
	return s.repo.Search(ctx, query, searchLimit)
}

// Stats runs one aggregate count per bucket over the full collection.
func (s *UserService) Stats(ctx context.Context) (*domain.UserStats, error) {
	active, inactive := true, false

	stats := &domain.UserStats{}
	counts := []struct {
		dst    *int64
		filter ports.CountFilter
	}{
		{&stats.TotalUsers, ports.CountFilter{}},
		{&stats.ActiveUsers, ports.CountFilter{IsActive: &active}},
		{&stats.InactiveUsers, ports.CountFilter{IsActive: &inactive}},
		{&stats.AdminUsers, ports.CountFilter{Role: domain.RoleAdmin}},
		{&stats.ModeratorUsers, ports.CountFilter{Role: domain.RoleModerator}},
		{&stats.RegularUsers, ports.CountFilter{Role: domain.RoleUser}},
	}
	for _, c := range counts {
		n, err := s.repo.Count(ctx, c.filter)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return stats, nil
}

// UpdateProfile applies a self-service update to the caller's own record.
// The input shape carries no role field, so the stored role cannot change
// here no matter what the transport layer received.
func (s *UserService) UpdateProfile(ctx context.Context, callerID string, input ports.ProfileUpdateInput) (*domain.User, error) {
	update := ports.UserUpdate{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Age:       input.Age,
		IsActive:  input.IsActive,
	}
	if err := normalizeUpdate(&update); err != nil {
		return nil, err
	}
	return s.repo.UpdateByID(ctx, callerID, update)
}

// UpdateUser applies an elevated update to an arbitrary target, including
// role and active-state changes. No self-restriction applies.
func (s *UserService) UpdateUser(ctx context.Context, id string, input ports.AdminUpdateInput) (*domain.User, error) {
	update := ports.UserUpdate{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Age:       input.Age,
		IsActive:  input.IsActive,
	}
	if input.Role != nil {
		role := domain.Role(strings.ToUpper(*input.Role))
		if !role.Valid() {
			return nil, domain.ErrInvalidInput
		}
		update.Role = &role
	}
	if err := normalizeUpdate(&update); err != nil {
		return nil, err
	}

	user, err := s.repo.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Msg("user updated by admin")
	return user, nil
}

// DeleteUser hard-removes a user. Self-deletion is blocked.
func (s *UserService) DeleteUser(ctx context.Context, callerID, id string) error {
	if id == callerID {
		return domain.ErrSelfAction
	}
	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrUserNotFound
	}
	s.log.Info().Str("user_id", id).Str("deleted_by", callerID).Msg("user deleted")
	return nil
}

// SetActive toggles the active flag. Self-deactivation is blocked;
// self-activation is a no-op worth allowing.
func (s *UserService) SetActive(ctx context.Context, callerID, id string, active bool) (*domain.User, error) {
	if !active && id == callerID {
		return nil, domain.ErrSelfAction
	}
	return s.repo.UpdateByID(ctx, id, ports.UserUpdate{IsActive: &active})
}

// ChangeRole overwrites the target's role. Self-target is blocked so an admin
// cannot demote themselves into a lockout.
func (s *UserService) ChangeRole(ctx context.Context, callerID, id string, role domain.Role) (*domain.User, error) {
	if id == callerID {
		return nil, domain.ErrSelfAction
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}
	user, err := s.repo.UpdateByID(ctx, id, ports.UserUpdate{Role: &role})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Str("role", string(role)).Msg("user role changed")
	return user, nil
}

// normalizeUpdate trims and validates the updatable fields shared by the
// self-service and elevated paths.
func normalizeUpdate(update *ports.UserUpdate) error {
	if update.Username != nil {
		trimmed := strings.TrimSpace(*update.Username)
		if len(trimmed) < usernameMinLen || len(trimmed) > usernameMaxLen {
			return domain.ErrInvalidInput
		}
		update.Username = &trimmed
	}
	if update.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*update.Email))
		if lowered == "" || !strings.Contains(lowered, "@") {
			return domain.ErrInvalidInput
		}
		update.Email = &lowered
	}
	if update.FirstName != nil {
		trimmed := strings.TrimSpace(*update.FirstName)
		if trimmed == "" {
			return domain.ErrInvalidInput
		}
		update.FirstName = &trimmed
	}
	if update.LastName != nil {
		trimmed := strings.TrimSpace(*update.LastName)
		if trimmed == "" {
			return domain.ErrInvalidInput
		}
		update.LastName = &trimmed
	}
	if update.Age != nil && (*update.Age < domain.AgeMin || *update.Age > domain.AgeMax) {
		return domain.ErrInvalidInput
	}
	return nil
}
