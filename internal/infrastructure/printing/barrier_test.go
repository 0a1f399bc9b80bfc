package printing

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	logo := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(logo)
	})
	mux.HandleFunc("/logo.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	})
	mux.HandleFunc("/slow.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestImageBarrier_Settle(t *testing.T) {
	server := newImageServer(t)
	barrier, err := NewImageBarrier(&ImageBarrierConfig{
		BaseURL:      server.URL,
		ImageTimeout: 200 * time.Millisecond,
	})
	require.NoError(t, err)

	page := `<html><head></head><body>
<img class="logo" src="/logo.png">
<img class="vector" src="` + server.URL + `/logo.svg">
<img class="missing" src="/missing.png">
<img class="slow" src="/slow.png">
<img class="inline" src="data:image/gif;base64,R0lGODlhAQABAAAAACw=">
</body></html>`

	start := time.Now()
	out, report, err := barrier.Settle(context.Background(), []byte(page))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Equal(t, SettleReport{Total: 5, Loaded: 3, Failed: 2}, report)

	html := string(out)
	assert.Contains(t, html, `<img class="logo" src="data:image/jpeg;base64,`)
	assert.Contains(t, html, `<img class="vector" src="data:image/svg+xml;base64,`)
	assert.Contains(t, html, `<img class="missing"/>`)
	assert.Contains(t, html, `<img class="slow"/>`)
	assert.Contains(t, html, `src="data:image/gif;base64,R0lGODlhAQABAAAAACw="`)
	assert.NotContains(t, html, server.URL)
}

func TestImageBarrier_NoImages(t *testing.T) {
	barrier, err := NewImageBarrier(nil)
	require.NoError(t, err)

	page := []byte("<p>no images</p>")
	out, report, err := barrier.Settle(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, page, out)
	assert.Zero(t, report.Total)
}

func TestImageBarrier_UnsupportedScheme(t *testing.T) {
	barrier, err := NewImageBarrier(&ImageBarrierConfig{})
	require.NoError(t, err)

	out, report, err := barrier.Settle(context.Background(), []byte(`<img src="file:///etc/passwd">`))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, strings.Contains(string(out), "passwd"))
}

func TestImageBarrier_ContextCancelled(t *testing.T) {
	server := newImageServer(t)
	barrier, err := NewImageBarrier(&ImageBarrierConfig{BaseURL: server.URL, ImageTimeout: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err = barrier.Settle(ctx, []byte(`<img src="/slow.png">`))
	require.Error(t, err)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
}

func TestNewImageBarrier_Defaults(t *testing.T) {
	barrier, err := NewImageBarrier(&ImageBarrierConfig{JPEGQuality: 500})
	require.NoError(t, err)
	assert.Equal(t, defaultImageTimeout, barrier.config.ImageTimeout)
	assert.Equal(t, defaultImageConcurrency, barrier.config.Concurrency)
	assert.Equal(t, defaultJPEGQuality, barrier.config.JPEGQuality)

	_, err = NewImageBarrier(&ImageBarrierConfig{BaseURL: "://bad"})
	assert.Error(t, err)
}
