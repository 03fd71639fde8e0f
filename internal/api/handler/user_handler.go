package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns every user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	users, err := h.users.ListUsers(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get returns one user.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  validationErrorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var p idParams
	if err := bindPath(c, &p); err != nil {
		return err
	}

	u, err := h.users.GetUser(c.Request().Context(), caller, p.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Create registers a user. Anonymous callers may only create USER accounts.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userRequest  true  "User"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	u, err := h.users.CreateUser(c.Request().Context(), optionalCaller(c), toUserInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Update replaces a user.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "User ID"
// @Param        body  body      userRequest  true  "User"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var p idParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	var req userRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	u, err := h.users.UpdateUser(c.Request().Context(), caller, p.ID, toUserInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Delete removes a user and all of their appointments.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {boolean} boolean
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var p idParams
	if err := bindPath(c, &p); err != nil {
		return err
	}

	if err := h.users.DeleteUser(c.Request().Context(), caller, p.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, true)
}
