// Package storage keeps exported PDFs in object storage (S3-compatible or GCS).
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	infraconfig "github.com/shipdocs/backend/internal/infrastructure/config"
	"github.com/shipdocs/backend/internal/infrastructure/printing"
)

const pdfContentType = "application/pdf"

// Archive keeps a copy of a produced PDF
type Archive interface {
	Archive(ctx context.Context, req *printing.ArchiveRequest) (*printing.ArchiveResult, error)
}

// NewArchive builds the archive selected by export.archive.driver.
// It returns nil when archiving is disabled.
func NewArchive(ctx context.Context, cfg *infraconfig.Config, logger *zap.Logger) (Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Export.Archive.Driver {
	case "", infraconfig.ArchiveNone:
		return nil, nil
	case infraconfig.ArchiveFilesystem:
		a, err := printing.NewFileSystemArchive(&printing.FileSystemArchiveConfig{
			BasePath: cfg.Export.Archive.Path,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	case infraconfig.ArchiveS3:
		a, err := NewS3Archive(ctx, &cfg.Storage, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return a, nil
	case infraconfig.ArchiveGCS:
		a, err := NewGCSArchive(ctx, &cfg.GCS, WithGCSLogger(logger))
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Export.Archive.Driver)
	}
}

// objectKey is {prefix}/{document_id}/{unix_nano}-{filename}
func objectKey(prefix string, req *printing.ArchiveRequest, now time.Time) (string, error) {
	if req == nil {
		return "", printing.NewRenderError(printing.ErrCodeStorageFailed, "archive request is nil", nil)
	}
	if len(req.PDFData) == 0 {
		return "", printing.NewRenderError(printing.ErrCodeStorageFailed, "PDF data is empty", nil)
	}
	if !validSegment(req.DocumentID) || !validSegment(req.Filename) {
		return "", printing.NewRenderError(printing.ErrCodeStorageFailed, "invalid object key", nil)
	}

	name := fmt.Sprintf("%d-%s", now.UnixNano(), req.Filename)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return path.Join(req.DocumentID, name), nil
	}
	return path.Join(prefix, req.DocumentID, name), nil
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// contentDisposition mirrors the download response so the stored object opens with the same name
func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
