package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/infrastructure/config"
)

// Storage abstracts the object store. Implemented by the S3 client and
// the in-memory stub in infrastructure/storage.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	PresignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// UploadKind names the folder an upload lands in
type UploadKind string

const (
	KindProduct UploadKind = "products"
	KindHero    UploadKind = "hero"
	KindBlog    UploadKind = "blog"
	KindLogo    UploadKind = "logos"
)

func validKind(k UploadKind) bool {
	switch k {
	case KindProduct, KindHero, KindBlog, KindLogo:
		return true
	}
	return false
}

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// UploadResponse describes a stored file
type UploadResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// DownloadURLResponse carries a time-limited GET link
type DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MediaService validates and stores image uploads under per-store key prefixes
type MediaService struct {
	storage Storage
	cfg     config.StorageConfig
	logger  *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(storage Storage, cfg config.StorageConfig, logger *zap.Logger) *MediaService {
	return &MediaService{storage: storage, cfg: cfg, logger: logger}
}

// Upload validates and stores a file, returning its key and public URL.
// Keys follow stores/<store_id>/<kind>/<uuid><ext> so one store can never
// shadow another store's files.
func (s *MediaService) Upload(ctx context.Context, storeID uuid.UUID, kind UploadKind, filename string, data []byte) (*UploadResponse, error) {
	if !validKind(kind) {
		return nil, shared.NewDomainError("INVALID_UPLOAD_KIND", "Unknown upload kind")
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "File is empty")
	}
	if int64(len(data)) > s.cfg.MaxUploadSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the %d byte upload limit", s.cfg.MaxUploadSize))
	}

	ext := strings.ToLower(path.Ext(filename))
	if !s.extensionAllowed(ext) {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "File type is not allowed")
	}
	contentType, ok := contentTypes[ext]
	if !ok {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "File type is not allowed")
	}

	key := fmt.Sprintf("stores/%s/%s/%s%s", storeID, kind, uuid.New(), ext)
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		s.logger.Error("Upload failed",
			zap.String("store_id", storeID.String()),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to store file")
	}

	return &UploadResponse{
		Key:         key,
		URL:         s.publicURL(key),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Delete removes a stored file. The key must belong to the store.
func (s *MediaService) Delete(ctx context.Context, storeID uuid.UUID, key string) error {
	if !s.ownsKey(storeID, key) {
		return shared.NewDomainError("NOT_FOUND", "File not found")
	}

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return shared.NewDomainError("STORAGE_ERROR", "Failed to check file")
	}
	if !exists {
		return shared.NewDomainError("NOT_FOUND", "File not found")
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Error("Delete failed",
			zap.String("store_id", storeID.String()),
			zap.String("key", key),
			zap.Error(err),
		)
		return shared.NewDomainError("STORAGE_ERROR", "Failed to delete file")
	}
	return nil
}

// DownloadURL returns a time-limited GET link for a store's file
func (s *MediaService) DownloadURL(ctx context.Context, storeID uuid.UUID, key string, expiresIn time.Duration) (*DownloadURLResponse, error) {
	if !s.ownsKey(storeID, key) {
		return nil, shared.NewDomainError("NOT_FOUND", "File not found")
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}

	url, expiresAt, err := s.storage.PresignedURL(ctx, key, expiresIn)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to generate download link")
	}
	return &DownloadURLResponse{URL: url, ExpiresAt: expiresAt}, nil
}

func (s *MediaService) publicURL(key string) string {
	base := strings.TrimSuffix(s.cfg.BaseURL, "/")
	return base + "/" + key
}

func (s *MediaService) ownsKey(storeID uuid.UUID, key string) bool {
	return strings.HasPrefix(key, "stores/"+storeID.String()+"/")
}

func (s *MediaService) extensionAllowed(ext string) bool {
	if ext == "" {
		return false
	}
	allowed := s.cfg.AllowedExtensions
	if len(allowed) == 0 {
		allowed = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
	}
	for _, a := range allowed {
		if !strings.HasPrefix(a, ".") {
			a = "." + a
		}
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
