package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"cityevents/internal/delivery/http/helpers"
	"cityevents/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateUserRequest is the request body for POST /admin/users.
type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate implements helpers.Validator.
func (r *CreateUserRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	} else if !strings.Contains(r.Email, "@") {
		errs = append(errs, "email must be a valid address")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// CreateUserSuccessResponse is the success response envelope for POST /admin/users.
type CreateUserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateUser godoc
// @Summary Register a new user
// @Description Creates a user account. Email must be unique.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body controllers.CreateUserRequest true "User fields"
// @Success 201 {object} controllers.CreateUserSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users [post]
func (c *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := c.Service.CreateUser(r.Context(), req.Email, req.Name)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// ListUsersSuccessResponse is the success response envelope for GET /admin/users.
type ListUsersSuccessResponse struct {
	Data  []*domain.User    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListUsers godoc
// @Summary List users
// @Description Returns users, optionally filtered by ids, paginated with from/size.
// @Tags admin
// @Produce json
// @Param ids query []string false "User IDs"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.ListUsersSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	from, size := helpers.ParseFromSize(r)
	ids := r.URL.Query()["ids"]

	users, err := c.Service.ListUsers(r.Context(), ids, from, size)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Param userID path string true "User ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users/{userID} [delete]
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}

	if err := c.Service.DeleteUser(r.Context(), userID); err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
