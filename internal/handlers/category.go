package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clubstock/clubstock/internal/models"
)

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ClubID      string `json:"clubId"`
}

// UpdateCategoryRequest carries a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// listCategories returns the categories of a club
func (r *Router) listCategories(w http.ResponseWriter, req *http.Request) {
	clubID := mux.Vars(req)["id"]

	var club models.Club
	if err := r.db.First(&club, "id = ?", clubID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Club not found")
		return
	}

	var categories []models.Category
	if err := r.db.Where("club_id = ?", clubID).Find(&categories).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// getCategory returns a single category
func (r *Router) getCategory(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// createCategory creates a category inside an existing club
func (r *Router) createCategory(w http.ResponseWriter, req *http.Request) {
	var createReq CreateCategoryRequest
	if err := json.NewDecoder(req.Body).Decode(&createReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if createReq.Name == "" || createReq.ClubID == "" {
		respondError(w, http.StatusBadRequest, "name and clubId are required")
		return
	}

	var club models.Club
	if err := r.db.First(&club, "id = ?", createReq.ClubID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Club not found")
		return
	}

	category := models.Category{
		Name:        createReq.Name,
		Description: createReq.Description,
		ClubID:      createReq.ClubID,
	}
	if err := r.db.Create(&category).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// updateCategory applies a partial update to a category
func (r *Router) updateCategory(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	var updateReq UpdateCategoryRequest
	if err := json.NewDecoder(req.Body).Decode(&updateReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if updateReq.Name != nil {
		category.Name = *updateReq.Name
	}
	if updateReq.Description != nil {
		category.Description = *updateReq.Description
	}

	if err := r.db.Save(&category).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// deleteCategory removes a category. Articles keep their categoryId; the
// dangling reference is the caller's concern, matching the data model.
func (r *Router) deleteCategory(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	result := r.db.Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if result.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
