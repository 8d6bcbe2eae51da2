package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelConfig holds configuration for a QR label sheet
type LabelConfig struct {
	ArticleID   string  `json:"articleId"`
	ArticleName string  `json:"articleName"`
	Count       int     `json:"count"`
	Cols        int     `json:"cols"`
	Rows        int     `json:"rows"`
	MarginTop   float64 `json:"marginTop"`
	MarginLeft  float64 `json:"marginLeft"`
	GapX        float64 `json:"gapX"`
	GapY        float64 `json:"gapY"`
}

// DefaultLabelConfig returns an A4 sheet layout for an article
func DefaultLabelConfig(articleID, articleName string, count int) LabelConfig {
	return LabelConfig{
		ArticleID:   articleID,
		ArticleName: articleName,
		Count:       count,
		Cols:        4,
		Rows:        10,
		MarginTop:   10,
		MarginLeft:  8,
		GapX:        2,
		GapY:        2,
	}
}

// GenerateLabelsPDF creates a PDF sheet of QR labels. Each label encodes
// the article id so a scan resolves the article directly.
func GenerateLabelsPDF(cfg LabelConfig) ([]byte, error) {
	if cfg.Count <= 0 || cfg.Cols <= 0 || cfg.Rows <= 0 {
		return nil, fmt.Errorf("invalid label configuration")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	// A4 dimensions
	pageWidth, pageHeight := 210.0, 297.0

	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY

	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)

	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	qrPng, err := qrcode.Encode(cfg.ArticleID, qrcode.Low, 256)
	if err != nil {
		return nil, err
	}

	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	_ = pdf.RegisterImageOptionsReader("qr_article", imgOptions, bytes.NewReader(qrPng))

	name := cfg.ArticleName
	if len(name) > 28 {
		name = name[:28]
	}

	for i := 0; i < cfg.Count; i++ {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols

		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		// QR centered, taking up 70% of label height
		qrSize := labelH * 0.7
		if qrSize > labelW {
			qrSize = labelW * 0.9
		}

		qrX := x + (labelW-qrSize)/2
		qrY := y + (labelH-qrSize)/2 - 2

		pdf.ImageOptions("qr_article", qrX, qrY, qrSize, qrSize, false, imgOptions, 0, "")

		pdf.SetXY(x, y+labelH-6)
		pdf.SetFontSize(8)
		pdf.CellFormat(labelW, 5, name, "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
