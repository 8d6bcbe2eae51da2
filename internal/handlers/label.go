package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/clubstock/clubstock/internal/models"
	"github.com/clubstock/clubstock/internal/services/printer"
)

// articleLabels renders a printable PDF sheet of QR labels for an article
func (r *Router) articleLabels(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var article models.Article
	if err := r.db.First(&article, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Article not found")
		return
	}

	count := 40
	if raw := req.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 400 {
			respondError(w, http.StatusBadRequest, "count must be between 1 and 400")
			return
		}
		count = n
	}

	pdf, err := printer.GenerateLabelsPDF(printer.DefaultLabelConfig(article.ID, article.Name, count))
	if err != nil {
		r.logger.Error("generate label sheet", zap.String("article_id", article.ID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate labels")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=labels.pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
