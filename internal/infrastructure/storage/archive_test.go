package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/shipdocs/backend/internal/infrastructure/config"
	"github.com/shipdocs/backend/internal/infrastructure/printing"
)

func TestObjectKey(t *testing.T) {
	now := time.Unix(0, 1700000000000000000)
	req := &printing.ArchiveRequest{DocumentID: "doc-1", Filename: "shipping-DOC-1.pdf", PDFData: []byte("%PDF")}

	t.Run("with prefix", func(t *testing.T) {
		key, err := objectKey("/exports/", req, now)
		require.NoError(t, err)
		assert.Equal(t, "exports/doc-1/1700000000000000000-shipping-DOC-1.pdf", key)
	})

	t.Run("without prefix", func(t *testing.T) {
		key, err := objectKey("", req, now)
		require.NoError(t, err)
		assert.Equal(t, "doc-1/1700000000000000000-shipping-DOC-1.pdf", key)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		bad := *req
		bad.DocumentID = ".."
		_, err := objectKey("", &bad, now)
		require.Error(t, err)

		bad = *req
		bad.Filename = "a/b.pdf"
		_, err = objectKey("", &bad, now)
		require.Error(t, err)
	})

	t.Run("rejects empty data", func(t *testing.T) {
		empty := *req
		empty.PDFData = nil
		_, err := objectKey("", &empty, now)

		var renderErr *printing.RenderError
		require.True(t, errors.As(err, &renderErr))
		assert.Equal(t, printing.ErrCodeStorageFailed, renderErr.Code)
	})

	t.Run("rejects nil", func(t *testing.T) {
		_, err := objectKey("", nil, now)
		require.Error(t, err)
	})
}

func TestNewArchive(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		cfg := &infraconfig.Config{}
		cfg.Export.Archive.Driver = infraconfig.ArchiveNone
		a, err := NewArchive(ctx, cfg, nil)
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	t.Run("filesystem", func(t *testing.T) {
		cfg := &infraconfig.Config{}
		cfg.Export.Archive.Driver = infraconfig.ArchiveFilesystem
		cfg.Export.Archive.Path = t.TempDir()
		a, err := NewArchive(ctx, cfg, nil)
		require.NoError(t, err)
		assert.IsType(t, &printing.FileSystemArchive{}, a)
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		cfg := &infraconfig.Config{}
		cfg.Export.Archive.Driver = infraconfig.ArchiveS3
		a, err := NewArchive(ctx, cfg, nil)
		require.Error(t, err)
		assert.Nil(t, a)
	})

	t.Run("gcs without bucket", func(t *testing.T) {
		cfg := &infraconfig.Config{}
		cfg.Export.Archive.Driver = infraconfig.ArchiveGCS
		a, err := NewArchive(ctx, cfg, nil)
		require.Error(t, err)
		assert.Nil(t, a)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := &infraconfig.Config{}
		cfg.Export.Archive.Driver = "ftp"
		_, err := NewArchive(ctx, cfg, nil)
		require.Error(t, err)
	})
}
