package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clubstock/clubstock/internal/models"
)

// CreateClubRequest represents a club creation request
type CreateClubRequest struct {
	Name       string `json:"name"`
	InviteCode string `json:"inviteCode"`
}

// UpdateClubRequest carries a partial club update
type UpdateClubRequest struct {
	Name       *string `json:"name"`
	InviteCode *string `json:"inviteCode"`
}

// listClubs returns all clubs
func (r *Router) listClubs(w http.ResponseWriter, req *http.Request) {
	var clubs []models.Club
	if err := r.db.Find(&clubs).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch clubs")
		return
	}
	respondJSON(w, http.StatusOK, clubs)
}

// getClub returns a single club
func (r *Router) getClub(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var club models.Club
	if err := r.db.First(&club, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Club not found")
		return
	}
	respondJSON(w, http.StatusOK, club)
}

// createClub creates a new club
func (r *Router) createClub(w http.ResponseWriter, req *http.Request) {
	var createReq CreateClubRequest
	if err := json.NewDecoder(req.Body).Decode(&createReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if createReq.Name == "" || createReq.InviteCode == "" {
		respondError(w, http.StatusBadRequest, "name and inviteCode are required")
		return
	}

	club := models.Club{
		Name:       createReq.Name,
		InviteCode: createReq.InviteCode,
	}
	if err := r.db.Create(&club).Error; err != nil {
		respondError(w, http.StatusBadRequest, "Failed to create club (invite code might exist)")
		return
	}
	respondJSON(w, http.StatusCreated, club)
}

// updateClub applies a partial update to a club
func (r *Router) updateClub(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var club models.Club
	if err := r.db.First(&club, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Club not found")
		return
	}

	var updateReq UpdateClubRequest
	if err := json.NewDecoder(req.Body).Decode(&updateReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if updateReq.Name != nil {
		club.Name = *updateReq.Name
	}
	if updateReq.InviteCode != nil {
		club.InviteCode = *updateReq.InviteCode
	}

	if err := r.db.Save(&club).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update club")
		return
	}
	respondJSON(w, http.StatusOK, club)
}

// deleteClub removes a club
func (r *Router) deleteClub(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	result := r.db.Delete(&models.Club{}, "id = ?", id)
	if result.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete club")
		return
	}
	if result.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Club not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Club deleted"})
}
