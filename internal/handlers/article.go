package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"github.com/clubstock/clubstock/internal/models"
)

// CreateArticleRequest represents an article creation request
type CreateArticleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Images      []string `json:"images"`
	Price       float64  `json:"price"`
	Stock       *int     `json:"stock"`
	CategoryID  *string  `json:"categoryId"`
	ClubID      string   `json:"clubId"`
}

// UpdateArticleRequest carries a partial article update. A null imageUrl in
// the payload clears the image, which triggers CDN deletion of the old one.
type UpdateArticleRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	ImageSet    bool      `json:"-"`
	Images      *[]string `json:"images"`
	Price       *float64  `json:"price"`
	Stock       *int      `json:"stock"`
	CategoryID  *string   `json:"categoryId"`
}

// UnmarshalJSON tracks whether imageUrl was present at all, so the handler
// can tell "leave unchanged" apart from "clear the image".
func (u *UpdateArticleRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateArticleRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = UpdateArticleRequest(a)
	_, u.ImageSet = raw["imageUrl"]
	return nil
}

func imagesJSON(images []string) datatypes.JSON {
	if images == nil {
		return nil
	}
	data, _ := json.Marshal(images)
	return datatypes.JSON(data)
}

func imagesFromJSON(data datatypes.JSON) []string {
	var images []string
	if len(data) > 0 {
		_ = json.Unmarshal(data, &images)
	}
	return images
}

// listArticlesByCategory returns the articles of a category
func (r *Router) listArticlesByCategory(w http.ResponseWriter, req *http.Request) {
	categoryID := mux.Vars(req)["id"]

	var category models.Category
	if err := r.db.First(&category, "id = ?", categoryID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	var articles []models.Article
	if err := r.db.Where("category_id = ?", categoryID).Find(&articles).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}
	respondJSON(w, http.StatusOK, articles)
}

// listArticlesByClub returns all articles of a club with their category
func (r *Router) listArticlesByClub(w http.ResponseWriter, req *http.Request) {
	clubID := mux.Vars(req)["id"]

	var club models.Club
	if err := r.db.First(&club, "id = ?", clubID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Club not found")
		return
	}

	var articles []models.Article
	if err := r.db.Preload("Category").Where("club_id = ?", clubID).Find(&articles).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}
	respondJSON(w, http.StatusOK, articles)
}

// getArticle returns a single article
func (r *Router) getArticle(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var article models.Article
	if err := r.db.First(&article, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Article not found")
		return
	}
	respondJSON(w, http.StatusOK, article)
}

// createArticle creates an article inside an existing club
func (r *Router) createArticle(w http.ResponseWriter, req *http.Request) {
	var createReq CreateArticleRequest
	if err := json.NewDecoder(req.Body).Decode(&createReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if createReq.Name == "" || createReq.ClubID == "" {
		respondError(w, http.StatusBadRequest, "name and clubId are required")
		return
	}
	if createReq.Price < 0 {
		respondError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	var club models.Club
	if err := r.db.First(&club, "id = ?", createReq.ClubID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Club not found")
		return
	}

	if createReq.CategoryID != nil && *createReq.CategoryID != "" {
		var category models.Category
		if err := r.db.First(&category, "id = ?", *createReq.CategoryID).Error; err != nil {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
	}

	article := models.Article{
		Name:        createReq.Name,
		Description: createReq.Description,
		ImageURL:    createReq.ImageURL,
		Images:      imagesJSON(createReq.Images),
		Price:       createReq.Price,
		Stock:       createReq.Stock,
		CategoryID:  createReq.CategoryID,
		ClubID:      createReq.ClubID,
	}
	if err := r.db.Create(&article).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create article")
		return
	}
	respondJSON(w, http.StatusCreated, article)
}

// updateArticle applies a partial update. Replacing or clearing the image
// deletes the previous one from the CDN, best effort.
func (r *Router) updateArticle(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var article models.Article
	if err := r.db.First(&article, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Article not found")
		return
	}

	var updateReq UpdateArticleRequest
	if err := json.NewDecoder(req.Body).Decode(&updateReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	var replacedImage string
	if updateReq.ImageSet {
		oldURL := ""
		if article.ImageURL != nil {
			oldURL = *article.ImageURL
		}
		newURL := ""
		if updateReq.ImageURL != nil {
			newURL = *updateReq.ImageURL
		}
		if oldURL != "" && oldURL != newURL {
			replacedImage = oldURL
		}
		article.ImageURL = updateReq.ImageURL
	}

	if updateReq.Name != nil {
		article.Name = *updateReq.Name
	}
	if updateReq.Description != nil {
		article.Description = *updateReq.Description
	}
	if updateReq.Images != nil {
		article.Images = imagesJSON(*updateReq.Images)
	}
	if updateReq.Price != nil {
		if *updateReq.Price < 0 {
			respondError(w, http.StatusBadRequest, "price must not be negative")
			return
		}
		article.Price = *updateReq.Price
	}
	if updateReq.Stock != nil {
		article.Stock = updateReq.Stock
	}
	if updateReq.CategoryID != nil {
		if *updateReq.CategoryID == "" {
			article.CategoryID = nil
		} else {
			var category models.Category
			if err := r.db.First(&category, "id = ?", *updateReq.CategoryID).Error; err != nil {
				respondError(w, http.StatusNotFound, "Category not found")
				return
			}
			article.CategoryID = updateReq.CategoryID
		}
	}

	if err := r.db.Save(&article).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update article")
		return
	}

	if replacedImage != "" {
		r.images.DeleteImage(req.Context(), replacedImage)
	}

	respondJSON(w, http.StatusOK, article)
}

// deleteArticle removes an article and its CDN images
func (r *Router) deleteArticle(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var article models.Article
	if err := r.db.First(&article, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Article not found")
		return
	}

	if err := r.db.Delete(&article).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete article")
		return
	}

	urls := imagesFromJSON(article.Images)
	if article.ImageURL != nil {
		urls = append(urls, *article.ImageURL)
	}
	r.images.DeleteImages(req.Context(), urls)

	respondJSON(w, http.StatusOK, map[string]string{"message": "Article deleted"})
}
