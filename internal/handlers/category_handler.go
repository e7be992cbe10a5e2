// file: internal/handlers/category_handler.go
package handlers

import (
	"net/http"

	"personahub/internal/services"
)

// CategoryHandler serves category management
type CategoryHandler struct {
	*Base
	categories services.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(base *Base, categories services.CategoryService) *CategoryHandler {
	return &CategoryHandler{Base: base, categories: categories}
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCategoryRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), &req)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteCreated(w, r, category)
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, categories)
}

// Get handles GET /api/v1/categories/{categoryID}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	category, err := h.categories.GetCategory(r.Context(), categoryID)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, category)
}

// Delete handles DELETE /api/v1/categories/{categoryID}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), categoryID); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteNoContent(w, r)
}
