package uploadcare

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/clubstock/clubstock/internal/config"
)

const apiBase = "https://api.uploadcare.com"

// uuidPattern captures the file UUID from CDN URLs such as
// https://ucarecdn.com/abc123.../image.jpg
var uuidPattern = regexp.MustCompile(`(?i)/([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})/`)

// Service deletes images from the Uploadcare CDN. Deletion is always
// best-effort: a failure is logged and never blocks the calling operation.
type Service struct {
	publicKey string
	secretKey string
	client    *http.Client
	logger    *zap.Logger
}

// New builds a Service. With empty keys the service is disabled and every
// delete is skipped.
func New(cfg config.UploadcareConfig, logger *zap.Logger) *Service {
	if cfg.PublicKey == "" || cfg.SecretKey == "" {
		logger.Warn("uploadcare keys not configured, image deletion will be skipped")
	}
	return &Service{
		publicKey: cfg.PublicKey,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

func (s *Service) enabled() bool {
	return s.publicKey != "" && s.secretKey != ""
}

// extractUUID pulls the file UUID out of a CDN URL, or "" if none matches
func extractUUID(imageURL string) string {
	m := uuidPattern.FindStringSubmatch(imageURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// DeleteImage removes a single image from the CDN. Returns false when the
// deletion was skipped or failed.
func (s *Service) DeleteImage(ctx context.Context, imageURL string) bool {
	if imageURL == "" {
		return true
	}
	if !s.enabled() {
		return false
	}

	uuid := extractUUID(imageURL)
	if uuid == "" {
		s.logger.Warn("could not extract uuid from image url", zap.String("url", imageURL))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/files/%s/storage/", apiBase, uuid), nil)
	if err != nil {
		s.logger.Error("build uploadcare request", zap.Error(err))
		return false
	}
	req.Header.Set("Accept", "application/vnd.uploadcare-v0.7+json")
	req.Header.Set("Authorization", fmt.Sprintf("Uploadcare.Simple %s:%s", s.publicKey, s.secretKey))

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("delete image", zap.String("uuid", uuid), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.logger.Error("delete image", zap.String("uuid", uuid), zap.Int("status", resp.StatusCode))
		return false
	}

	s.logger.Info("deleted image", zap.String("uuid", uuid))
	return true
}

// DeleteImages removes several images, continuing past failures
func (s *Service) DeleteImages(ctx context.Context, imageURLs []string) {
	for _, url := range imageURLs {
		if url == "" {
			continue
		}
		s.DeleteImage(ctx, url)
	}
}
