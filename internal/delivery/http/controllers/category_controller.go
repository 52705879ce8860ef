package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"cityevents/internal/delivery/http/helpers"
	"cityevents/internal/domain"
)

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

// CategoryRequest is the request body for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

// Validate implements helpers.Validator.
func (r *CategoryRequest) Validate() []string {
	if strings.TrimSpace(r.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// CategorySuccessResponse is the response envelope for single-category endpoints.
type CategorySuccessResponse struct {
	Data  *domain.Category  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateCategory godoc
// @Summary Create a category
// @Description Creates a category. Name must be unique.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body controllers.CategoryRequest true "Category fields"
// @Success 201 {object} controllers.CategorySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories [post]
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	category, err := c.Service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Rename a category
// @Tags admin
// @Accept json
// @Produce json
// @Param catID path string true "Category ID"
// @Param body body controllers.CategoryRequest true "Category fields"
// @Success 200 {object} controllers.CategorySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories/{catID} [patch]
func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	catID := r.PathValue("catID")
	if catID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing catID")
		return
	}

	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	category, err := c.Service.UpdateCategory(r.Context(), catID, req.Name)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Deletes a category. Fails with a conflict when events reference it.
// @Tags admin
// @Produce json
// @Param catID path string true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/categories/{catID} [delete]
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	catID := r.PathValue("catID")
	if catID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing catID")
		return
	}

	if err := c.Service.DeleteCategory(r.Context(), catID); err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategoriesSuccessResponse is the response envelope for GET /categories.
type ListCategoriesSuccessResponse struct {
	Data  []*domain.Category `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListCategories godoc
// @Summary List categories
// @Tags public
// @Produce json
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.ListCategoriesSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	from, size := helpers.ParseFromSize(r)

	categories, err := c.Service.ListCategories(r.Context(), from, size)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get a category
// @Tags public
// @Produce json
// @Param catID path string true "Category ID"
// @Success 200 {object} controllers.CategorySuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{catID} [get]
func (c *CategoryController) GetCategory(w http.ResponseWriter, r *http.Request) {
	catID := r.PathValue("catID")
	if catID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing catID")
		return
	}

	category, err := c.Service.GetCategory(r.Context(), catID)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}
