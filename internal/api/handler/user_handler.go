package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/accountd/user-directory/internal/api/metrics"
	"github.com/accountd/user-directory/internal/core/domain"
	"github.com/accountd/user-directory/internal/core/ports"
)

// UserHandler handles HTTP requests for user query and management operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me returns the caller's own account.
//
// @Summary      Get the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(caller))
}

// List returns a filtered, sorted, offset-paginated page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username    query  string  false  "Substring match on username"
// @Param        email       query  string  false  "Substring match on email"
// @Param        role        query  string  false  "Exact role (USER, ADMIN, MODERATOR)"
// @Param        is_active   query  bool    false  "Exact active flag"
// @Param        age_min     query  int     false  "Minimum age (inclusive)"
// @Param        age_max     query  int     false  "Maximum age (inclusive)"
// @Param        sort_field  query  string  false  "Sort field (default created_at)"
// @Param        sort_order  query  string  false  "ASC or DESC (default DESC)"
// @Param        limit       query  int     false  "Page size (default 10, max 100)"
// @Param        offset      query  int     false  "Page offset (default 0)"
// @Success      200  {object}  listUsersResponse
// @Failure      400  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	input := ports.ListUsersInput{
		Username:  c.QueryParam("username"),
		Email:     c.QueryParam("email"),
		Role:      c.QueryParam("role"),
		SortField: c.QueryParam("sort_field"),
		SortOrder: c.QueryParam("sort_order"),
	}

	var err error
	if input.IsActive, err = queryBool(c, "is_active"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_active must be a boolean")
	}
	if input.AgeMin, err = queryInt(c, "age_min"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "age_min must be an integer")
	}
	if input.AgeMax, err = queryInt(c, "age_max"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "age_max must be an integer")
	}
	if limit, err := queryInt(c, "limit"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	} else if limit != nil {
		input.Limit = *limit
	}
	if offset, err := queryInt(c, "offset"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "offset must be an integer")
	} else if offset != nil {
		input.Offset = *offset
	}

	result, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Users:           toUserResponses(result.Users),
		TotalCount:      result.TotalCount,
		HasNextPage:     result.HasNextPage,
		HasPreviousPage: result.HasPreviousPage,
	})
}

// Search matches users by username, email, or name.
//
// @Summary      Search users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q  query  string  true  "Search text"
// @Success      200  {object}  searchUsersResponse
// @Failure      400  {object}  map[string]string
// @Router       /v1/users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	users, err := h.service.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, searchUsersResponse{Users: toUserResponses(users)})
}

// Get returns a single user by id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile updates the caller's own account.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  updateProfileRequest  true  "Fields to update"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/profile [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), caller.ID, ports.ProfileUpdateInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Stats returns aggregate account counts.
//
// @Summary      User statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserStats
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Update applies an admin update to an arbitrary user.
//
// @Summary      Update a user (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "User id"
// @Param        body  body  adminUpdateUserRequest  true  "Fields to update"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req adminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateUser(c.Request().Context(), c.Param("id"), ports.AdminUpdateInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Role:      req.Role,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete hard-removes a user.
//
// @Summary      Delete a user (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  deleteResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteUser(c.Request().Context(), caller.ID, c.Param("id")); err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, deleteResponse{Success: true, Message: "user deleted successfully"})
}

// Activate sets a user's active flag.
//
// @Summary      Activate a user (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/users/{id}/activate [post]
func (h *UserHandler) Activate(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	user, err := h.service.SetActive(c.Request().Context(), caller.ID, c.Param("id"), true)
	if err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("activate").Inc()
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Deactivate clears a user's active flag. Self-target is blocked.
//
// @Summary      Deactivate a user (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	user, err := h.service.SetActive(c.Request().Context(), caller.ID, c.Param("id"), false)
	if err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("deactivate").Inc()
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangeRole overwrites a user's role. Self-target is blocked.
//
// @Summary      Change a user's role (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "User id"
// @Param        body  body  changeRoleRequest  true  "New role"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.ChangeRole(c.Request().Context(), caller.ID, c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("change_role").Inc()
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// --- Query param helpers ---

func queryInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
