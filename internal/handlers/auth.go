package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clubstock/clubstock/internal/middleware"
	"github.com/clubstock/clubstock/internal/models"
	"github.com/clubstock/clubstock/internal/utils"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *Router) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(utils.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// register handles seller registration
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var regReq RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&regReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if regReq.Email == "" || regReq.Password == "" || regReq.Name == "" {
		respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	var existing models.Seller
	err := r.db.Where("email = ?", regReq.Email).First(&existing).Error
	if err == nil {
		respondError(w, http.StatusConflict, "A seller with this email already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, "Failed to check existing sellers")
		return
	}

	hashed, err := utils.HashPassword(regReq.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	seller := models.Seller{
		Name:     regReq.Name,
		Email:    regReq.Email,
		Password: hashed,
	}
	if err := r.db.Create(&seller).Error; err != nil {
		respondError(w, http.StatusBadRequest, "Failed to create seller")
		return
	}

	token, err := utils.GenerateToken(seller.ID, seller.Email, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Seller created but failed to generate token")
		return
	}

	r.setAuthCookie(w, token)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"access_token": token,
		"user":         seller,
	})
}

// login handles seller login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var seller models.Seller
	if err := r.db.Where("email = ?", loginReq.Email).First(&seller).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !utils.CheckPasswordHash(loginReq.Password, seller.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(seller.ID, seller.Email, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	r.logger.Info("seller logged in", zap.String("seller_id", seller.ID))

	r.setAuthCookie(w, token)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"user":         seller,
	})
}

// logout clears the session cookie
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// me returns the authenticated seller
func (r *Router) me(w http.ResponseWriter, req *http.Request) {
	claims, ok := middleware.ClaimsFrom(req.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var seller models.Seller
	if err := r.db.First(&seller, "id = ?", claims.SellerID).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Seller not found")
		return
	}
	respondJSON(w, http.StatusOK, seller)
}
