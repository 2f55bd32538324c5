package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/accountd/user-directory/internal/core/domain"
	"github.com/accountd/user-directory/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo, username string, role domain.Role, active bool) *domain.User {
	t.Helper()
	created, err := repo.Insert(context.Background(), &domain.User{
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "hash",
		FirstName:    "First",
		LastName:     "Last",
		Role:         role,
		IsActive:     active,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return created
}

func TestUserService_Get(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	created := seedUser(t, repo, "alice", domain.RoleUser, true)

	user, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List_Pagination(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	for i := 0; i < 25; i++ {
		seedUser(t, repo, fmt.Sprintf("user%02d", i), domain.RoleUser, true)
	}

	// First page with defaults.
	result, err := svc.List(context.Background(), ports.ListUsersInput{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(result.Users) != 10 {
		t.Fatalf("expected default limit 10, got %d users", len(result.Users))
	}
	if result.TotalCount != 25 {
		t.Fatalf("expected total 25, got %d", result.TotalCount)
	}
	if !result.HasNextPage {
		t.Fatalf("expected hasNextPage on first page")
	}
	if result.HasPreviousPage {
		t.Fatalf("did not expect hasPreviousPage on first page")
	}

	// Last page.
	result, err = svc.List(context.Background(), ports.ListUsersInput{Offset: 20, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(result.Users) != 5 {
		t.Fatalf("expected 5 users on last page, got %d", len(result.Users))
	}
	if result.HasNextPage {
		t.Fatalf("did not expect hasNextPage on last page")
	}
	if !result.HasPreviousPage {
		t.Fatalf("expected hasPreviousPage on last page")
	}

	// Exact boundary: offset+limit == total means no next page.
	result, err = svc.List(context.Background(), ports.ListUsersInput{Offset: 15, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.HasNextPage {
		t.Fatalf("offset+limit == total must not have a next page")
	}
}

func TestUserService_List_Filters(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	seedUser(t, repo, "admin1", domain.RoleAdmin, true)
	seedUser(t, repo, "mod1", domain.RoleModerator, true)
	seedUser(t, repo, "plain1", domain.RoleUser, false)

	result, err := svc.List(context.Background(), ports.ListUsersInput{Role: "admin"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.TotalCount != 1 || result.Users[0].Username != "admin1" {
		t.Fatalf("role filter failed: %+v", result)
	}

	if _, err := svc.List(context.Background(), ports.ListUsersInput{Role: "SUPERUSER"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}

	active := false
	result, err = svc.List(context.Background(), ports.ListUsersInput{IsActive: &active})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.TotalCount != 1 || result.Users[0].Username != "plain1" {
		t.Fatalf("is_active filter failed: %+v", result)
	}
}

func TestUserService_List_CapsLimit(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	seedUser(t, repo, "solo", domain.RoleUser, true)

	result, err := svc.List(context.Background(), ports.ListUsersInput{Limit: 10000})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.TotalCount != 1 {
		t.Fatalf("expected total 1, got %d", result.TotalCount)
	}
}

func TestUserService_Search(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	for i := 0; i < 25; i++ {
		seedUser(t, repo, fmt.Sprintf("match%02d", i), domain.RoleUser, true)
	}
	seedUser(t, repo, "unrelated", domain.RoleUser, true)

	users, err := svc.Search(context.Background(), "match")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(users) != searchLimit {
		t.Fatalf("expected results capped at %d, got %d", searchLimit, len(users))
	}

	users, err = svc.Search(context.Background(), "  ")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no results for blank query, got %d", len(users))
	}
}

func TestUserService_Stats(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	seedUser(t, repo, "a1", domain.RoleAdmin, true)
	seedUser(t, repo, "m1", domain.RoleModerator, true)
	for i := 0; i < 3; i++ {
		seedUser(t, repo, fmt.Sprintf("u%d", i), domain.RoleUser, true)
	}
	seedUser(t, repo, "i1", domain.RoleUser, false)
	seedUser(t, repo, "i2", domain.RoleUser, false)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalUsers != 7 {
		t.Fatalf("expected 7 total, got %d", stats.TotalUsers)
	}
	if stats.ActiveUsers != 5 || stats.InactiveUsers != 2 {
		t.Fatalf("expected 5 active / 2 inactive, got %d/%d", stats.ActiveUsers, stats.InactiveUsers)
	}
	if stats.AdminUsers != 1 || stats.ModeratorUsers != 1 || stats.RegularUsers != 5 {
		t.Fatalf("unexpected role counts: %+v", stats)
	}
}

func TestUserService_UpdateProfile_CannotChangeRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	created := seedUser(t, repo, "alice", domain.RoleUser, true)

	// The profile input shape has no role field; any update leaves the stored
	// role untouched.
	first := "Jane"
	updated, err := svc.UpdateProfile(context.Background(), created.ID, ports.ProfileUpdateInput{FirstName: &first})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Role != domain.RoleUser {
		t.Fatalf("profile update changed role to %s", updated.Role)
	}
	if updated.FirstName != "Jane" {
		t.Fatalf("expected first name update, got %q", updated.FirstName)
	}
	if updated.FullName() != "Jane Last" {
		t.Fatalf("expected derived full name to track the update, got %q", updated.FullName())
	}
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	created := seedUser(t, repo, "alice", domain.RoleUser, true)

	bad := "ab"
	if _, err := svc.UpdateProfile(context.Background(), created.ID, ports.ProfileUpdateInput{Username: &bad}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short username, got %v", err)
	}

	age := 121
	if _, err := svc.UpdateProfile(context.Background(), created.ID, ports.ProfileUpdateInput{Age: &age}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for out-of-range age, got %v", err)
	}
}

func TestUserService_UpdateUser_ChangesRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	created := seedUser(t, repo, "bob", domain.RoleUser, true)

	role := "MODERATOR"
	updated, err := svc.UpdateUser(context.Background(), created.ID, ports.AdminUpdateInput{Role: &role})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.Role != domain.RoleModerator {
		t.Fatalf("expected MODERATOR, got %s", updated.Role)
	}

	if _, err := svc.UpdateUser(context.Background(), "missing", ports.AdminUpdateInput{Role: &role}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	admin := seedUser(t, repo, "admin", domain.RoleAdmin, true)
	target := seedUser(t, repo, "target", domain.RoleUser, true)

	if err := svc.DeleteUser(context.Background(), admin.ID, admin.ID); !errors.Is(err, domain.ErrSelfAction) {
		t.Fatalf("expected ErrSelfAction for self-delete, got %v", err)
	}

	if err := svc.DeleteUser(context.Background(), admin.ID, target.ID); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), target.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected target to be removed")
	}

	if err := svc.DeleteUser(context.Background(), admin.ID, target.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for repeat delete, got %v", err)
	}
}

func TestUserService_SetActive(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	admin := seedUser(t, repo, "admin", domain.RoleAdmin, true)
	target := seedUser(t, repo, "target", domain.RoleUser, true)

	if _, err := svc.SetActive(context.Background(), admin.ID, admin.ID, false); !errors.Is(err, domain.ErrSelfAction) {
		t.Fatalf("expected ErrSelfAction for self-deactivate, got %v", err)
	}

	// Self-activation has no restriction.
	if _, err := svc.SetActive(context.Background(), admin.ID, admin.ID, true); err != nil {
		t.Fatalf("self-activate returned error: %v", err)
	}

	updated, err := svc.SetActive(context.Background(), admin.ID, target.ID, false)
	if err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("expected target to be inactive")
	}

	if _, err := svc.SetActive(context.Background(), admin.ID, "missing", false); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ChangeRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	admin := seedUser(t, repo, "admin", domain.RoleAdmin, true)
	target := seedUser(t, repo, "target", domain.RoleUser, true)

	if _, err := svc.ChangeRole(context.Background(), admin.ID, admin.ID, domain.RoleUser); !errors.Is(err, domain.ErrSelfAction) {
		t.Fatalf("expected ErrSelfAction for self role change, got %v", err)
	}

	if _, err := svc.ChangeRole(context.Background(), admin.ID, target.ID, domain.Role("WIZARD")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}

	updated, err := svc.ChangeRole(context.Background(), admin.ID, target.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", updated.Role)
	}
}
