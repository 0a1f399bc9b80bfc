package printing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ArchiveRequest describes one produced PDF to keep
type ArchiveRequest struct {
	// DocumentID is the record id the PDF was produced from
	DocumentID string
	// Filename is the download name, e.g. shipping-DOC-001.pdf
	Filename string
	// PDFData is the raw PDF content
	PDFData []byte
}

// ArchiveResult contains the result of archiving a PDF
type ArchiveResult struct {
	// Location is the storage path or object URI
	Location string
	// Size is the file size in bytes
	Size int64
}

// FileSystemArchiveConfig contains configuration for file system archiving
type FileSystemArchiveConfig struct {
	// BasePath is the root directory of the archive
	// Default: ./data/exports
	BasePath string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemArchive stores exported PDFs on the local file system
type FileSystemArchive struct {
	config *FileSystemArchiveConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewFileSystemArchive creates a new file system based PDF archive
func NewFileSystemArchive(config *FileSystemArchiveConfig) (*FileSystemArchive, error) {
	if config == nil {
		config = &FileSystemArchiveConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "./data/exports"
	}

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create archive directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemArchive{
		config: config,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Archive writes the PDF to {base}/{document_id}/{unix_nano}-{filename}
func (s *FileSystemArchive) Archive(ctx context.Context, req *ArchiveRequest) (*ArchiveResult, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	if req == nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "archive request is nil", nil)
	}
	if len(req.PDFData) == 0 {
		return nil, NewRenderError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}
	if !safeSegment(req.DocumentID) || !safeSegment(req.Filename) {
		s.logger.Warn("blocked potentially malicious archive path",
			zap.String("document_id", req.DocumentID),
			zap.String("filename", req.Filename))
		return nil, NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	dirPath := filepath.Join(s.config.BasePath, req.DocumentID)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixNano(), req.Filename)
	fullPath := filepath.Join(dirPath, name)

	// Write to a temp file and rename so readers never see a partial PDF
	tmp, err := os.CreateTemp(dirPath, ".export-*")
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create temp file", err)
	}
	if _, err := tmp.Write(req.PDFData); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write PDF file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to close PDF file", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to move PDF file", err)
	}

	location := filepath.ToSlash(filepath.Join(req.DocumentID, name))
	s.logger.Info("PDF archived",
		zap.String("path", fullPath),
		zap.Int("size", len(req.PDFData)))

	return &ArchiveResult{
		Location: location,
		Size:     int64(len(req.PDFData)),
	}, nil
}

// safeSegment reports whether s can be used as one path element
func safeSegment(s string) bool {
	if s == "" || s == "." || filepath.IsAbs(s) {
		return false
	}
	return !containsDotDot(s) && !strings.ContainsAny(s, `/\`)
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}
