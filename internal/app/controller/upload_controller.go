package controller

import (
	"errors"
	"net/http"

	apperrors "github.com/drukmenu/drukmenu-backend/internal/errors"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	"github.com/drukmenu/drukmenu-backend/internal/storage"
	"github.com/drukmenu/drukmenu-backend/pkg/imageutil"
	"github.com/gin-gonic/gin"
)

const maxUploadSize = 10 << 20

type UploadController struct {
	storage storage.ObjectStorage
}

func NewUploadController(storage storage.ObjectStorage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // defaults to menu-items
}

// uploadFolder accepts the folders owners may write to directly. QR cards
// are only written by the server.
func uploadFolder(c *gin.Context, folder string) (string, bool) {
	if folder == "" {
		folder = storage.FolderMenuItems
	}
	if folder == storage.FolderQRCards || storage.ValidateFolder(folder) != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Folder must be menu-items or business")
		return "", false
	}
	return folder, true
}

// UploadImage resizes an image and stores it as JPEG
// POST /api/v1/upload/image (multipart: file, folder)
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	folder, ok := uploadFolder(c, c.PostForm("folder"))
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "An image file is required")
		return
	}
	if err := storage.ValidateFileSize(header.Size, maxUploadSize); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Images must be 10MB or smaller")
		return
	}
	if err := storage.ValidateContentType(header.Header.Get("Content-Type"), storage.AllowedImageTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG and WEBP images are allowed")
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err)
		apperrors.InternalError(c, "")
		return
	}
	defer file.Close()

	data, err := imageutil.Compress(file, imageutil.DefaultMaxDimension, imageutil.DefaultQuality)
	if err != nil {
		if errors.Is(err, imageutil.ErrUnsupportedImage) {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "The file is not a supported image")
			return
		}
		log.Warn("Failed to process image", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "The image could not be read")
		return
	}

	fileURL, err := ctrl.storage.Upload(c.Request.Context(), folder, ".jpg", "image/jpeg", data)
	if err != nil {
		log.Error("Failed to upload image", err, map[string]interface{}{
			"folder": folder,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UploadFailed, "Failed to upload image. Please try again")
		return
	}

	log.Info("Image uploaded", map[string]interface{}{
		"folder":        folder,
		"original_size": header.Size,
		"stored_size":   len(data),
	})

	c.JSON(http.StatusCreated, gin.H{
		"file_url": fileURL,
	})
}

// GeneratePresignedURL generates a presigned URL for uploading files to S3
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	if err := storage.ValidateContentType(req.ContentType, storage.AllowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG and WEBP images are allowed")
		return
	}

	folder, ok := uploadFolder(c, req.Folder)
	if !ok {
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(c.Request.Context(), req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.InternalError(c, "Failed to generate presigned URL")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"folder": folder,
		"key":    response.Key,
	})

	c.JSON(http.StatusOK, response)
}
