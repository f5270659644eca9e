package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink_backend/internal/config"
	"carelink_backend/internal/middleware"
	"carelink_backend/internal/services/dto"
	"carelink_backend/internal/storage"
	"carelink_backend/pkg/apperrors"
)

// AttachmentHandler uploads attachment bytes to blob storage and hands
// back the descriptor that a later send-message call will carry.
type AttachmentHandler struct {
	*BaseHandler
	store storage.Storage
}

func NewAttachmentHandler(base *BaseHandler, store storage.Storage) *AttachmentHandler {
	return &AttachmentHandler{
		BaseHandler: base,
		store:       store,
	}
}

func (h *AttachmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	attachments := r.Group("/attachments")
	attachments.Use(middleware.AuthMiddleware())
	{
		attachments.POST("", h.UploadAttachment)
	}
}

func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	cfg := config.GetConfig()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("no file provided"))
		return
	}

	if cfg.Upload.MaxSize > 0 && fileHeader.Size > cfg.Upload.MaxSize {
		apperrors.HandleError(c, apperrors.NewBadRequestError(
			fmt.Sprintf("file exceeds maximum size of %d bytes", cfg.Upload.MaxSize)))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !h.allowedType(contentType, cfg.Upload.AllowedTypes) {
		apperrors.HandleError(c, apperrors.NewBadRequestError("unsupported file type: "+contentType))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	path := filepath.Join(
		"attachments",
		actor.Key(),
		time.Now().Format("2006/01"),
		uuid.NewString()+filepath.Ext(fileHeader.Filename),
	)

	if err := h.store.Save(c.Request.Context(), path, file, contentType); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AttachmentDescriptor{
		FileName: fileHeader.Filename,
		FilePath: filepath.ToSlash(path),
		MimeType: contentType,
		FileSize: fileHeader.Size,
	})
}

func (h *AttachmentHandler) allowedType(contentType string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if t == contentType {
			return true
		}
	}
	return false
}
