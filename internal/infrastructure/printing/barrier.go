package printing

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"
)

const (
	defaultImageTimeout     = 5 * time.Second
	defaultImageConcurrency = 4
	defaultJPEGQuality      = 98
	maxImageBytes           = 10 << 20
)

// ImageBarrierConfig contains configuration for the image readiness barrier
type ImageBarrierConfig struct {
	// BaseURL resolves relative image sources such as /static/logo.svg
	BaseURL string
	// ImageTimeout bounds every single image fetch
	ImageTimeout time.Duration
	// Concurrency caps the number of parallel fetches
	Concurrency int
	// JPEGQuality is used when raster images are re-encoded (1-100)
	JPEGQuality int
	// HTTPClient fetches remote images (default: http.DefaultClient)
	HTTPClient *http.Client
	// Logger for per-image outcomes
	Logger *zap.Logger
}

// SettleReport describes how the images of a page settled
type SettleReport struct {
	Total  int
	Loaded int
	Failed int
}

// ImageBarrier waits until every <img> of a page has settled, successfully or
// not, and inlines the loaded ones as data URIs. Failed images lose their src
// so the converter never goes to the network.
type ImageBarrier struct {
	config *ImageBarrierConfig
	base   *url.URL
	client *http.Client
	logger *zap.Logger
}

// NewImageBarrier creates a new ImageBarrier
func NewImageBarrier(config *ImageBarrierConfig) (*ImageBarrier, error) {
	if config == nil {
		config = &ImageBarrierConfig{}
	}
	if config.ImageTimeout <= 0 {
		config.ImageTimeout = defaultImageTimeout
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaultImageConcurrency
	}
	if config.JPEGQuality <= 0 || config.JPEGQuality > 100 {
		config.JPEGQuality = defaultJPEGQuality
	}

	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid image base url %q: %w", config.BaseURL, err)
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ImageBarrier{config: config, base: base, client: client, logger: logger}, nil
}

// Settle fans out over every image of page and returns once all of them settled.
// It only fails when page cannot be parsed or ctx ends first.
func (b *ImageBarrier) Settle(ctx context.Context, page []byte) ([]byte, SettleReport, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, SettleReport{}, NewRenderError(ErrCodeInvalidHTML, "failed to parse page", err)
	}

	images := collectImages(root)
	report := SettleReport{Total: len(images)}
	if len(images) == 0 {
		return page, report, nil
	}

	inlined := make([]string, len(images))
	var loaded atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Concurrency)
	for i, img := range images {
		src := attr(img, "src")
		g.Go(func() error {
			dataURI, err := b.load(gctx, src)
			if err != nil {
				b.logger.Warn("image did not load, continuing without it",
					zap.String("src", src), zap.Error(err))
				return nil
			}
			inlined[i] = dataURI
			loaded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, report, NewRenderError(ErrCodeRenderTimeout, "image barrier interrupted", err)
	}

	for i, img := range images {
		if inlined[i] == "" {
			removeAttr(img, "src")
			continue
		}
		setAttr(img, "src", inlined[i])
	}
	report.Loaded = int(loaded.Load())
	report.Failed = report.Total - report.Loaded

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, report, NewRenderError(ErrCodeRenderFailed, "failed to serialize page", err)
	}

	b.logger.Debug("images settled",
		zap.Int("total", report.Total),
		zap.Int("loaded", report.Loaded),
		zap.Int("failed", report.Failed))
	return buf.Bytes(), report, nil
}

// load fetches one image within its own deadline and returns it as a data URI
func (b *ImageBarrier) load(ctx context.Context, src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", fmt.Errorf("empty src")
	}
	if strings.HasPrefix(src, "data:") {
		return src, nil
	}

	ref, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("invalid src: %w", err)
	}
	target := b.base.ResolveReference(ref)
	if target.Scheme != "http" && target.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", target.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, b.config.ImageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty body")
	}

	return b.encode(data, resp.Header.Get("Content-Type")), nil
}

// encode re-encodes raster images as JPEG at the configured quality. Formats
// Go cannot decode (SVG) are inlined unchanged.
func (b *ImageBarrier) encode(data []byte, contentType string) string {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		// JPEG has no alpha channel; flatten onto white like a page background
		canvas := image.NewRGBA(img.Bounds())
		draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
		draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Over)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: b.config.JPEGQuality}); err == nil {
			return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
		}
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func collectImages(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}
