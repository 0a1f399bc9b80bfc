package printing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/shipdocs/backend/internal/domain/printing"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	cssPixelsPerMM       = 96 / 25.4
)

// avoidBreaksCSS keeps sections, table rows and images on one page
const avoidBreaksCSS = `.section, .header, .footer, tr, img { page-break-inside: avoid; break-inside: avoid; }
table { page-break-inside: auto; }
thead { display: table-header-group; }`

// ChromedpConfig contains configuration for the chromedp converter
type ChromedpConfig struct {
	// DefaultTimeout for conversion operations
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// Headless mode (default: true)
	Headless bool
	// DisableGPU disables GPU hardware acceleration (default: true for server environments)
	DisableGPU bool
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpConverter converts HTML to PDF using Chrome DevTools Protocol
type ChromedpConverter struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpConverter creates a new chromedp-based PDF converter
func NewChromedpConverter(config *ChromedpConfig) (*ChromedpConverter, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	// Default to headless and disable GPU for server environments
	if !config.Headless {
		config.Headless = true
	}
	if !config.DisableGPU {
		config.DisableGPU = true
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &ChromedpConverter{
		config: config,
		logger: logger,
	}
	c.initAllocator()
	return c, nil
}

func (c *ChromedpConverter) initAllocator() {
	if c.config.RemoteURL != "" {
		c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), c.config.RemoteURL)
		return
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.config.Headless),
		chromedp.Flag("disable-gpu", c.config.DisableGPU),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if c.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// Convert renders settled HTML into a PDF with the given page settings
func (c *ChromedpConverter) Convert(ctx context.Context, req *ConvertRequest) (*ConvertResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "convert request is nil", nil)
	}
	if strings.TrimSpace(string(req.HTML)) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.Settings.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.Settings.PaperSize), nil)
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The tab is tied to the request context so a cancelled request closes it
	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			c.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	document := string(req.HTML)
	if req.Settings.AvoidsBreaks() {
		document = injectStyle(document, avoidBreaksCSS)
	}
	params := buildPrintParams(req.Settings)

	var pdfData []byte
	err := chromedp.Run(tabCtx,
		emulation.SetDeviceMetricsOverride(params.viewportWidth, params.viewportHeight, params.deviceScale, false),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, document).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(false).
				WithPaperWidth(params.paperWidth).
				WithPaperHeight(params.paperHeight).
				WithMarginTop(params.marginTop).
				WithMarginRight(params.marginRight).
				WithMarginBottom(params.marginBottom).
				WithMarginLeft(params.marginLeft).
				WithLandscape(params.landscape).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF conversion timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF conversion was cancelled", err)
		}
		c.logger.Error("chromedp conversion failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	duration := time.Since(startTime)
	c.logger.Info("PDF converted",
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", duration))

	return &ConvertResult{
		PDFData:         pdfData,
		ConvertDuration: duration,
	}, nil
}

// printParams holds the parameters for PDF printing
type printParams struct {
	paperWidth     float64
	paperHeight    float64
	marginTop      float64
	marginRight    float64
	marginBottom   float64
	marginLeft     float64
	landscape      bool
	viewportWidth  int64
	viewportHeight int64
	deviceScale    float64
}

// buildPrintParams converts page settings into Chrome's units (inches and CSS pixels)
func buildPrintParams(s printing.PageSettings) *printParams {
	width, height := s.PaperSize.Dimensions()
	landscape := s.Orientation == printing.OrientationLandscape
	if landscape {
		width, height = height, width
	}

	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}

	return &printParams{
		// Chrome swaps the sheet itself when landscape is set
		paperWidth:     mmToInches(float64(min(width, height))),
		paperHeight:    mmToInches(float64(max(width, height))),
		marginTop:      mmToInches(float64(s.Margins.Top)),
		marginRight:    mmToInches(float64(s.Margins.Right)),
		marginBottom:   mmToInches(float64(s.Margins.Bottom)),
		marginLeft:     mmToInches(float64(s.Margins.Left)),
		landscape:      landscape,
		viewportWidth:  int64(math.Round(float64(width) * cssPixelsPerMM)),
		viewportHeight: int64(math.Round(float64(height) * cssPixelsPerMM)),
		deviceScale:    scale,
	}
}

// injectStyle adds css to the document head, or prepends it when there is no head
func injectStyle(document, css string) string {
	tag := "<style>" + css + "</style>"
	lower := strings.ToLower(document)
	if i := strings.Index(lower, "</head>"); i >= 0 {
		return document[:i] + tag + document[i:]
	}
	return tag + document
}

// Close releases resources held by the converter
func (c *ChromedpConverter) Close() error {
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

// mmToInches converts millimeters to inches
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// Ensure ChromedpConverter implements PDFConverter
var _ PDFConverter = (*ChromedpConverter)(nil)
