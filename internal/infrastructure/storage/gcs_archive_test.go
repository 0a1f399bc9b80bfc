package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/shipdocs/backend/internal/infrastructure/config"
	"github.com/shipdocs/backend/internal/infrastructure/printing"
)

// fakeGCS answers JSON API uploads the way the storage emulator does
func fakeGCS(t *testing.T) (*httptest.Server, func() (string, string)) {
	var mu sync.Mutex
	var path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		path, body = r.URL.Path, string(data)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"bucket":      "exports",
			"name":        r.URL.Query().Get("name"),
			"contentType": "application/pdf",
			"size":        "26",
		})
	}))
	t.Cleanup(srv.Close)
	return srv, func() (string, string) {
		mu.Lock()
		defer mu.Unlock()
		return path, body
	}
}

func TestNewGCSArchive_Validation(t *testing.T) {
	_, err := NewGCSArchive(context.Background(), nil)
	require.Error(t, err)

	_, err = NewGCSArchive(context.Background(), &infraconfig.GCSConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestGCSArchive_Archive(t *testing.T) {
	srv, last := fakeGCS(t)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	t.Setenv("STORAGE_EMULATOR_HOST", u.Host)

	a, err := NewGCSArchive(context.Background(), &infraconfig.GCSConfig{Bucket: "exports", Prefix: "pdf"})
	require.NoError(t, err)
	defer a.Close()
	a.now = func() time.Time { return time.Unix(0, 7) }

	pdf := []byte("%PDF-1.4 shipping manifest")
	result, err := a.Archive(context.Background(), &printing.ArchiveRequest{
		DocumentID: "doc-2",
		Filename:   "shipping-doc-2.pdf",
		PDFData:    pdf,
	})
	require.NoError(t, err)
	assert.Equal(t, "gs://exports/pdf/doc-2/7-shipping-doc-2.pdf", result.Location)
	assert.Equal(t, int64(len(pdf)), result.Size)

	path, body := last()
	assert.True(t, strings.HasSuffix(path, "/b/exports/o"), path)
	assert.Contains(t, body, string(pdf))
	assert.Contains(t, body, "pdf/doc-2/7-shipping-doc-2.pdf")
}

func TestGCSArchive_ExistingObjectIsSkipped(t *testing.T) {
	var mu sync.Mutex
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		query = r.URL.Query()
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPreconditionFailed)
		_, _ = w.Write([]byte(`{"error":{"code":412,"message":"At least one of the pre-conditions you specified did not hold."}}`))
	}))
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	t.Setenv("STORAGE_EMULATOR_HOST", u.Host)

	a, err := NewGCSArchive(context.Background(), &infraconfig.GCSConfig{Bucket: "exports"})
	require.NoError(t, err)
	defer a.Close()
	a.now = func() time.Time { return time.Unix(0, 9) }

	result, err := a.Archive(context.Background(), &printing.ArchiveRequest{
		DocumentID: "doc-3",
		Filename:   "shipping-doc-3.pdf",
		PDFData:    []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "gs://exports/doc-3/9-shipping-doc-3.pdf", result.Location)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "0", query.Get("ifGenerationMatch"))
}
