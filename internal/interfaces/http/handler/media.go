package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	mediaapp "github.com/multistore/backend/internal/application/media"
)

// maxUploadMemory bounds multipart form parsing, not the stored object size.
// The media service enforces its own per-file limit.
const maxUploadMemory = 32 << 20

// MediaHandler handles image uploads to object storage
type MediaHandler struct {
	BaseHandler
	media *mediaapp.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(media *mediaapp.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload accepts a multipart file and stores it under the given kind folder
func (h *MediaHandler) Upload(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		h.BadRequest(c, "Invalid multipart form")
		return
	}

	kind := mediaapp.UploadKind(c.PostForm("kind"))
	if kind == "" {
		kind = mediaapp.UploadKind(c.Query("kind"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file field is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Could not read uploaded file")
		return
	}

	resp, err := h.media.Upload(c.Request.Context(), storeID, kind, fileHeader.Filename, data)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Delete removes a stored object owned by the current store
func (h *MediaHandler) Delete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "A key query parameter is required")
		return
	}

	if err := h.media.Delete(c.Request.Context(), storeID, key); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// DownloadURL issues a short-lived presigned URL for a stored object
func (h *MediaHandler) DownloadURL(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Store could not be resolved")
		return
	}

	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "A key query parameter is required")
		return
	}

	expiresIn := 15 * time.Minute
	if raw := c.Query("expires_in"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 || d > 24*time.Hour {
			h.BadRequest(c, "Invalid expires_in duration")
			return
		}
		expiresIn = d
	}

	resp, err := h.media.DownloadURL(c.Request.Context(), storeID, key, expiresIn)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
