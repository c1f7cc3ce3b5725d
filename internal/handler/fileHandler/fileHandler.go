package fileHandler

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"materials-service/internal/model/catalogue"
	"materials-service/internal/repository/catalogueRepo"
	"materials-service/internal/service/fileService"
	"materials-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FileHandler struct {
	fileService *fileService.FileService
}

func NewFileHandler(fileService *fileService.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

func (h *FileHandler) Register(r *gin.Engine) {
	r.GET("/api/status", h.Status)
	r.GET("/api/data", h.GetData)
	r.GET("/api/files/:subject/:module", h.GetBucket)
	r.GET("/api/teacher-files/:subject", h.GetSubjectFiles)
	r.POST("/api/upload", h.Upload)
	r.POST("/api/update-filename", h.UpdateFilename)
	r.POST("/api/delete-file", h.DeleteFile)
	r.GET("/uploads/:storedName", h.Download)
}

func (h *FileHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "Server işləyir",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *FileHandler) GetData(c *gin.Context) {
	c.JSON(http.StatusOK, h.fileService.All(c.Request.Context()))
}

// GetBucket returns one bucket. Unknown subject or module type reads as an
// empty list.
func (h *FileHandler) GetBucket(c *gin.Context) {
	subject := c.Param("subject")
	module := catalogue.ModuleType(c.Param("module"))
	c.JSON(http.StatusOK, h.fileService.Bucket(c.Request.Context(), subject, module))
}

func (h *FileHandler) GetSubjectFiles(c *gin.Context) {
	c.JSON(http.StatusOK, h.fileService.SubjectFiles(c.Request.Context(), c.Param("subject")))
}

func (h *FileHandler) Upload(c *gin.Context) {
	// Multipart parsing may have spooled the upload to a transport temp
	// file; make sure it is removed even when validation rejects the
	// request.
	defer func() {
		if c.Request.MultipartForm != nil {
			_ = c.Request.MultipartForm.RemoveAll()
		}
	}()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Fayl yüklənmədi"})
		return
	}

	module := c.PostForm("moduleType")
	if module == "" {
		module = c.PostForm("module")
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server xətası"})
		return
	}
	defer src.Close()

	record, err := h.fileService.Upload(c.Request.Context(), fileService.UploadInput{
		Subject:      c.PostForm("subject"),
		Module:       module,
		Type:         c.PostForm("type"),
		OriginalName: fileHeader.Filename,
		Size:         fileHeader.Size,
		Reader:       src,
	})
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		logger.GetLogger(c.Request.Context()).Error("upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server xətası"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Fayl uğurla yükləndi",
		"file": gin.H{
			"id":           record.ID.String(),
			"filename":     record.StoredName,
			"originalname": record.OriginalName,
			"type":         record.Type,
		},
	})
}

type updateFilenameRequest struct {
	FileID  string `json:"fileId"`
	Module  string `json:"module"`
	Subject string `json:"subject"`
	NewName string `json:"newName"`
}

func (h *FileHandler) UpdateFilename(c *gin.Context) {
	var req updateFilenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	id, module, ok := parseTarget(c, req.FileID, req.Module)
	if !ok {
		return
	}

	err := h.fileService.Rename(c.Request.Context(), req.Subject, module, id, req.NewName)
	switch {
	case errors.Is(err, catalogueRepo.ErrFileNotFound):
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Fayl tapılmadı"})
	case err != nil:
		logger.GetLogger(c.Request.Context()).Error("rename failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server xətası"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Fayl adı uğurla yeniləndi"})
	}
}

type deleteFileRequest struct {
	FileID  string `json:"fileId"`
	Module  string `json:"module"`
	Subject string `json:"subject"`
}

func (h *FileHandler) DeleteFile(c *gin.Context) {
	var req deleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	id, module, ok := parseTarget(c, req.FileID, req.Module)
	if !ok {
		return
	}

	err := h.fileService.Delete(c.Request.Context(), req.Subject, module, id)
	switch {
	case errors.Is(err, catalogueRepo.ErrFileNotFound):
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Fayl tapılmadı"})
	case err != nil:
		logger.GetLogger(c.Request.Context()).Error("delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server xətası"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Fayl uğurla silindi"})
	}
}

// Download streams a stored binary by its generated name.
func (h *FileHandler) Download(c *gin.Context) {
	storedName := filepath.Base(c.Param("storedName"))
	reader, err := h.fileService.Open(c.Request.Context(), storedName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Fayl tapılmadı"})
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, contentTypeFor(storedName), reader, nil)
}

// parseTarget validates the structural parts of a mutation request. A
// malformed id or module type is a 400, unlike a tuple that simply does not
// resolve.
func parseTarget(c *gin.Context, fileID, module string) (uuid.UUID, catalogue.ModuleType, bool) {
	id, err := uuid.Parse(fileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid file id"})
		return uuid.UUID{}, "", false
	}
	m := catalogue.ModuleType(module)
	if !m.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid module type"})
		return uuid.UUID{}, "", false
	}
	return id, m, true
}

func isValidationError(err error) bool {
	return errors.Is(err, fileService.ErrNoFile) ||
		errors.Is(err, fileService.ErrMissingFields) ||
		errors.Is(err, fileService.ErrInvalidModule) ||
		errors.Is(err, fileService.ErrUnsupportedType) ||
		errors.Is(err, fileService.ErrFileTooLarge)
}

func contentTypeFor(storedName string) string {
	switch filepath.Ext(storedName) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}
