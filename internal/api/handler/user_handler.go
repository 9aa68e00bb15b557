package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/hr-identity/internal/core/domain"
	"github.com/staffdesk/hr-identity/internal/core/ports"
)

// UserHandler serves the user administration routes. Access rules are applied by
// middleware at routing time; handlers assume the caller is permitted.
type UserHandler struct {
	authService ports.AuthService
	activity    ports.ActivityRecorder
}

func NewUserHandler(authService ports.AuthService, activity ports.ActivityRecorder) *UserHandler {
	return &UserHandler{authService: authService, activity: activity}
}

// Create registers a new identity.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role := domain.RoleJunior
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			return err
		}
		role = parsed
	}

	params := domain.NewUserParams{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       role,
		ManagerID:  req.ManagerID,
		Department: req.Department,
		Position:   req.Position,
		Phone:      req.Phone,
	}
	if req.HireDate != nil {
		params.HireDate = *req.HireDate
	}

	user, err := h.authService.Register(c.Request().Context(), params)
	if err != nil {
		return err
	}

	if actor, _ := currentUser(c); actor != nil {
		recordActivity(c, h.activity, domain.ActivityEntry{
			UserID:  actor.ID,
			Action:  "CreateUser",
			Details: "created " + string(user.Role) + " " + user.Email,
			Status:  domain.ActivitySuccess,
		})
	}
	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// Get returns one identity.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.authService.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Reports lists the identities whose manager is the given user.
//
// @Summary      List direct reports
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Manager id"
// @Success      200  {object}  reportsResponse
// @Failure      403  {object}  errorResponse
// @Router       /users/{id}/reports [get]
func (h *UserHandler) Reports(c echo.Context) error {
	managerID := c.Param("id")
	reports, err := h.authService.ListReports(c.Request().Context(), managerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportsResponse{ManagerID: managerID, Reports: reports})
}

// Deactivate switches an identity off. Its outstanding tokens stop working immediately.
//
// @Summary      Deactivate a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/deactivate [patch]
func (h *UserHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

// Activate switches an identity back on.
//
// @Summary      Activate a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/activate [patch]
func (h *UserHandler) Activate(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *UserHandler) setActive(c echo.Context, active bool) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	target := c.Param("id")
	if !active && target == actor.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot deactivate your own account")
	}

	user, err := h.authService.SetActive(c.Request().Context(), target, active)
	if err != nil {
		return err
	}

	action := "DeactivateUser"
	if active {
		action = "ActivateUser"
	}
	recordActivity(c, h.activity, domain.ActivityEntry{
		UserID:  actor.ID,
		Action:  action,
		Details: "target " + user.ID,
		Status:  domain.ActivitySuccess,
	})
	return c.JSON(http.StatusOK, userResponse{User: user})
}
