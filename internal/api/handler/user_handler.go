package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type UserHandler struct {
	users  ports.UserService
	images ports.ImageService
}

func NewUserHandler(users ports.UserService, images ports.ImageService) *UserHandler {
	return &UserHandler{users: users, images: images}
}

// Register creates a new identity. Only an authenticated admin may set a
// role other than user.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var caller *domain.Identity
	if id, ok := middleware.IdentityFrom(c); ok {
		caller = &id
	}

	if _, err := h.users.Register(c.Request().Context(), toRegisterInput(req), caller); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "Register Success"})
}

// List returns every identity.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: nonNil(users)})
}

// Me returns the identity snapshot carried by the caller's token.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identityResponse{User: id})
}

// Get returns one identity by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  userResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /users/{userId} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// UpdateMe applies a partial profile update to the caller. Accepts JSON or
// multipart with an optional image file.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  false  "Fields to update"
// @Param        image formData  file                  false  "Profile image"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var (
		req   updateProfileRequest
		image *string
	)
	if isMultipart(c) {
		form, err := c.FormParams()
		if err != nil {
			return domain.Validation("Invalid request payload.")
		}
		req = updateProfileRequest{
			Password: formString(form, "password"),
			Name:     formString(form, "name"),
			Username: formString(form, "username"),
			Address:  formString(form, "address"),
			Phone:    formString(form, "phone"),
			Gender:   formString(form, "gender"),
			Role:     formString(form, "role"),
		}
	} else if err := c.Bind(&req); err != nil {
		return domain.Validation("Invalid request payload.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Role is checked before anything is stored, image included.
	if req.Role != nil && !caller.Role.IsAdmin() {
		return domain.ErrRoleChangeDenied
	}
	if isMultipart(c) {
		if image, err = uploadImage(c, h.images); err != nil {
			return err
		}
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), caller, toUpdateProfileInput(req, image))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "Update Success", User: user})
}

// ChangeRole sets another identity's role. The body must contain exactly
// the role field.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int                true  "User id"
// @Param        body    body      map[string]string  true  "{\"role\": \"admin\"}"
// @Success      200     {object}  userResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /users/{userId} [patch]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}

	user, err := h.users.ChangeRole(c.Request().Context(), caller.UserID, id, fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "Update Success", User: user})
}

func userIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}
	return uint(id), nil
}
