package fileService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"materials-service/internal/model/catalogue"
	"materials-service/internal/repository/catalogueRepo"
	"materials-service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoFile          = errors.New("no file provided")
	ErrMissingFields   = errors.New("subject and module type are required")
	ErrInvalidModule   = errors.New("unknown module type")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file is too large")
)

// allowedExtensions is the document allow-list. Rejection is by extension,
// not by content sniffing.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// BlobStorage persists uploaded binaries under their generated stored name.
// Backed by the local upload directory or an object bucket.
type BlobStorage interface {
	SaveFile(ctx context.Context, storedName string, reader io.Reader, size int64) error
	OpenFile(ctx context.Context, storedName string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, storedName string) error
}

type FileService struct {
	catalogue *catalogueRepo.CatalogueRepo
	blobs     BlobStorage
	maxSize   int64
}

func New(catalogue *catalogueRepo.CatalogueRepo, blobs BlobStorage, maxSize int64) *FileService {
	return &FileService{
		catalogue: catalogue,
		blobs:     blobs,
		maxSize:   maxSize,
	}
}

// UploadInput carries one incoming file plus its form metadata.
type UploadInput struct {
	Subject      string
	Module       string
	Type         string
	OriginalName string
	Size         int64
	Reader       io.Reader
}

// Upload validates the input, stores the binary under a generated name and
// registers the record. If registration fails after the binary was written,
// the orphaned binary is removed before the error is returned.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (catalogue.FileRecord, error) {
	if in.Reader == nil || in.OriginalName == "" {
		return catalogue.FileRecord{}, ErrNoFile
	}
	if in.Subject == "" || in.Module == "" {
		return catalogue.FileRecord{}, ErrMissingFields
	}
	module := catalogue.ModuleType(in.Module)
	if !module.Valid() {
		return catalogue.FileRecord{}, fmt.Errorf("%w: %s", ErrInvalidModule, in.Module)
	}
	ext := strings.ToLower(filepath.Ext(in.OriginalName))
	if !allowedExtensions[ext] {
		return catalogue.FileRecord{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	if in.Size > s.maxSize {
		return catalogue.FileRecord{}, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, in.Size)
	}

	storedName := generateStoredName(ext)
	if err := s.blobs.SaveFile(ctx, storedName, in.Reader, in.Size); err != nil {
		return catalogue.FileRecord{}, fmt.Errorf("failed to store file: %w", err)
	}

	record := catalogue.FileRecord{
		ID:           uuid.New(),
		StoredName:   storedName,
		OriginalName: in.OriginalName,
		Size:         in.Size,
		Type:         in.Type,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.catalogue.Append(ctx, in.Subject, module, record); err != nil {
		if delErr := s.blobs.DeleteFile(ctx, storedName); delErr != nil {
			logger.GetLogger(ctx).Error("failed to remove orphaned upload",
				zap.String("storedName", storedName), zap.Error(delErr))
		}
		return catalogue.FileRecord{}, fmt.Errorf("failed to register file: %w", err)
	}
	return record, nil
}

// Rename updates a record's original name within one bucket.
func (s *FileService) Rename(ctx context.Context, subject string, module catalogue.ModuleType, id uuid.UUID, newName string) error {
	return s.catalogue.Rename(ctx, subject, module, id, newName)
}

// Delete removes the record from the catalogue and then deletes the stored
// binary best-effort: a binary that is already gone is logged, not escalated.
func (s *FileService) Delete(ctx context.Context, subject string, module catalogue.ModuleType, id uuid.UUID) error {
	removed, err := s.catalogue.Remove(ctx, subject, module, id)
	if err != nil {
		return err
	}
	if err := s.blobs.DeleteFile(ctx, removed.StoredName); err != nil {
		logger.GetLogger(ctx).Warn("could not delete stored file",
			zap.String("storedName", removed.StoredName), zap.Error(err))
	}
	return nil
}

func (s *FileService) All(ctx context.Context) catalogue.Catalogue {
	return s.catalogue.GetAll(ctx)
}

func (s *FileService) Bucket(ctx context.Context, subject string, module catalogue.ModuleType) []catalogue.FileRecord {
	return s.catalogue.GetBucket(ctx, subject, module)
}

func (s *FileService) SubjectFiles(ctx context.Context, subject string) catalogue.SubjectFiles {
	return s.catalogue.GetSubjectFiles(ctx, subject)
}

// Open streams a stored binary by generated name, for the download endpoint.
func (s *FileService) Open(ctx context.Context, storedName string) (io.ReadCloser, error) {
	return s.blobs.OpenFile(ctx, storedName)
}

// generateStoredName builds a practically unique on-disk name from the
// current time and a random component. Only the validated extension of the
// original name is reused, so non-ASCII user filenames never reach the
// filesystem.
func generateStoredName(ext string) string {
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
}
