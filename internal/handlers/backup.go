package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"gorm.io/datatypes"

	"github.com/clubstock/clubstock/internal/middleware"
	"github.com/clubstock/clubstock/internal/models"
)

// createBackup stores an export document uploaded by the offline app
func (r *Router) createBackup(w http.ResponseWriter, req *http.Request) {
	claims, ok := middleware.ClaimsFrom(req.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, 10<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read payload")
		return
	}
	if !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "Payload must be valid JSON")
		return
	}

	backup := models.StockupBackup{
		SellerID: claims.SellerID,
		Payload:  datatypes.JSON(body),
	}
	if err := r.db.Create(&backup).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store backup")
		return
	}
	respondJSON(w, http.StatusCreated, backup)
}

// latestBackup returns the seller's most recent backup
func (r *Router) latestBackup(w http.ResponseWriter, req *http.Request) {
	claims, ok := middleware.ClaimsFrom(req.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var backup models.StockupBackup
	err := r.db.Where("seller_id = ?", claims.SellerID).
		Order("uploaded_at DESC").
		First(&backup).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "No backup found")
		return
	}
	respondJSON(w, http.StatusOK, backup)
}
