package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/accountd/user-directory/internal/core/domain"
	"github.com/accountd/user-directory/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository used by the service tests.
type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Age != nil {
		age := *u.Age
		clone.Age = &age
	}
	return &clone
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r *stubUserRepo) matches(u *domain.User, f ports.ListUsersFilter) bool {
	if f.Username != "" && !containsFold(u.Username, f.Username) {
		return false
	}
	if f.Email != "" && !containsFold(u.Email, f.Email) {
		return false
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.IsActive != nil && u.IsActive != *f.IsActive {
		return false
	}
	if f.AgeMin != nil && (u.Age == nil || *u.Age < *f.AgeMin) {
		return false
	}
	if f.AgeMax != nil && (u.Age == nil || *u.Age > *f.AgeMax) {
		return false
	}
	return true
}

func (r *stubUserRepo) Find(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	matched := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if r.matches(u, filter) {
			matched = append(matched, cloneUser(u))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		switch filter.SortField {
		case "username":
			less = a.Username < b.Username
		default:
			if a.CreatedAt.Equal(b.CreatedAt) {
				less = a.ID < b.ID
			} else {
				less = a.CreatedAt.Before(b.CreatedAt)
			}
		}
		if filter.SortOrder == ports.SortAsc {
			return less
		}
		return !less
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []*domain.User{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%03d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) UpdateByID(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for otherID, other := range r.users {
		if otherID == id {
			continue
		}
		if update.Username != nil && other.Username == *update.Username {
			return nil, domain.ErrUserExists
		}
		if update.Email != nil && other.Email == *update.Email {
			return nil, domain.ErrUserExists
		}
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Age != nil {
		age := *update.Age
		u.Age = &age
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	if update.IsActive != nil {
		u.IsActive = *update.IsActive
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id string) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *stubUserRepo) Search(_ context.Context, query string, limit int) ([]*domain.User, error) {
	out := make([]*domain.User, 0, limit)
	for _, u := range r.users {
		if containsFold(u.Username, query) || containsFold(u.Email, query) ||
			containsFold(u.FirstName, query) || containsFold(u.LastName, query) {
			out = append(out, cloneUser(u))
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *stubUserRepo) Count(_ context.Context, filter ports.CountFilter) (int64, error) {
	var n int64
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		n++
	}
	return n, nil
}
