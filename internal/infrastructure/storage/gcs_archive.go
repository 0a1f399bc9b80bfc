package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	infraconfig "github.com/shipdocs/backend/internal/infrastructure/config"
	"github.com/shipdocs/backend/internal/infrastructure/printing"
)

// GCSArchive stores exported PDFs in a Google Cloud Storage bucket
type GCSArchive struct {
	client *storage.Client
	bucket string
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

// GCSArchiveOption is a functional option for configuring GCSArchive
type GCSArchiveOption func(*GCSArchive)

// WithGCSLogger sets a custom logger for GCSArchive
func WithGCSLogger(logger *zap.Logger) GCSArchiveOption {
	return func(a *GCSArchive) {
		a.logger = logger
	}
}

// NewGCSArchive creates a GCSArchive. STORAGE_EMULATOR_HOST is honoured by the client.
func NewGCSArchive(ctx context.Context, cfg *infraconfig.GCSConfig, opts ...GCSArchiveOption) (*GCSArchive, error) {
	if cfg == nil {
		return nil, errors.New("gcs configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	a := &GCSArchive{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Archive uploads the PDF under {prefix}/{document_id}/{unix_nano}-{filename}
func (a *GCSArchive) Archive(ctx context.Context, req *printing.ArchiveRequest) (*printing.ArchiveResult, error) {
	key, err := objectKey(a.prefix, req, a.now())
	if err != nil {
		return nil, err
	}

	// an object that already exists is never overwritten
	w := a.client.Bucket(a.bucket).Object(key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = pdfContentType
	w.ContentDisposition = contentDisposition(req.Filename)
	w.Metadata = map[string]string{"document_id": req.DocumentID}

	if _, err := w.Write(req.PDFData); err != nil {
		_ = w.Close()
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to upload PDF", err)
	}
	location := fmt.Sprintf("gs://%s/%s", a.bucket, key)

	// the upload only completes on Close
	if err := w.Close(); err != nil {
		if alreadyExists(err) {
			a.logger.Info("PDF already archived, skipping", zap.String("location", location))
			return &printing.ArchiveResult{Location: location, Size: int64(len(req.PDFData))}, nil
		}
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to upload PDF", err)
	}

	a.logger.Info("PDF archived",
		zap.String("location", location),
		zap.Int("size", len(req.PDFData)))

	return &printing.ArchiveResult{Location: location, Size: int64(len(req.PDFData))}, nil
}

// Close releases the GCS client
func (a *GCSArchive) Close() error {
	return a.client.Close()
}

func alreadyExists(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
