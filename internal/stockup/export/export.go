// Package export serializes the whole ledger into a single portable JSON
// document and handles the destructive counterpart, wiping everything.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clubstock/clubstock/internal/stockup/model"
	"github.com/clubstock/clubstock/internal/stockup/repository"
)

// Document is the full-state snapshot written by Export. ExportedAt is epoch
// milliseconds like every other timestamp in the data.
type Document struct {
	User       *model.User      `json:"user"`
	Categories []model.Category `json:"categories"`
	Products   []model.Product  `json:"products"`
	Sales      []model.Sale     `json:"sales"`
	Settings   model.Settings   `json:"settings"`
	ExportedAt int64            `json:"exportedAt"`
}

// Snapshot collects the current state of every collection into a Document.
func Snapshot(ctx context.Context, repos *repository.Repositories, now time.Time) Document {
	return Document{
		User:       repos.Users.Get(ctx),
		Categories: repos.Categories.GetAll(ctx),
		Products:   repos.Products.GetAll(ctx),
		Sales:      repos.Sales.GetAll(ctx),
		Settings:   repos.Settings.Get(ctx),
		ExportedAt: now.UnixMilli(),
	}
}

// Export renders the snapshot as indented JSON, ready to hand to a share
// sheet or write to a file.
func Export(ctx context.Context, repos *repository.Repositories, now time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(Snapshot(ctx, repos, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export marshal: %w", err)
	}
	return data, nil
}

// Reset removes every collection. There is no undo; callers confirm first.
func Reset(ctx context.Context, repos *repository.Repositories) error {
	return repos.Reset(ctx)
}
