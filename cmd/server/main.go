package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/shipdocs/backend/docs"
	"github.com/shipdocs/backend/internal/application/export"
	appprinting "github.com/shipdocs/backend/internal/application/printing"
	appshipping "github.com/shipdocs/backend/internal/application/shipping"
	"github.com/shipdocs/backend/internal/domain/printing"
	"github.com/shipdocs/backend/internal/domain/shipping"
	"github.com/shipdocs/backend/internal/infrastructure/cache"
	"github.com/shipdocs/backend/internal/infrastructure/config"
	"github.com/shipdocs/backend/internal/infrastructure/logger"
	"github.com/shipdocs/backend/internal/infrastructure/persistence"
	infraprinting "github.com/shipdocs/backend/internal/infrastructure/printing"
	"github.com/shipdocs/backend/internal/infrastructure/storage"
	"github.com/shipdocs/backend/internal/infrastructure/telemetry"
	"github.com/shipdocs/backend/internal/interfaces/http/handler"
	"github.com/shipdocs/backend/internal/interfaces/http/middleware"
	"github.com/shipdocs/backend/internal/interfaces/http/router"
)

//	@title			Shipping Documents API
//	@version		1.0
//	@description	Transport manifest records: create, list and fetch shipping documents.

//	@contact.name	API Support

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.Telemetry.ServiceName,
		Env:     cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	tel, err := setupTelemetry(ctx, cfg, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := tel.logs.Bridge(baseLog)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shipping documents server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("store", cfg.Store.Driver))

	app, err := buildApp(ctx, cfg, log, tel)
	if err != nil {
		log.Fatal("Failed to build application", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	middleware.SetupValidator()

	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	tracingCfg.Enabled = cfg.Telemetry.Enabled

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSOrigins

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(tracingCfg))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.SpanErrorMarker())
	if tel.profiler.IsEnabled() {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}
	engine.Use(logger.GinMiddleware(log, logger.WithSkipPaths("/health", "/metrics")))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Telemetry.PrometheusEnabled {
		httpMetrics := middleware.NewHTTPMetrics("shipdocs")
		engine.Use(httpMetrics.Middleware())
		engine.GET("/metrics", gin.WrapH(httpMetrics.Handler()))
	}

	engine.GET("/health", app.system.Health)
	engine.StaticFS("/static", http.FS(infraprinting.StaticFS()))
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.HTTP.SwaggerEnabled,
			AllowedIPs: cfg.HTTP.SwaggerAllowIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.DocumentRoutes(app.documents)).
		RegisterPages(handler.PageRoutes(app.pages, app.exports)).
		RegisterPages(handler.PrintRoutes(app.pages)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	app.close(log)
	tel.shutdown(shutdownCtx, log)

	log.Info("Server exited")
}

type telemetryStack struct {
	tracer   *telemetry.TracerProvider
	meter    *telemetry.MeterProvider
	logs     *telemetry.LoggerProvider
	profiler *telemetry.Profiler
}

func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetryStack, error) {
	tc := cfg.Telemetry

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	meter, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tc.MetricsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ExportInterval:    tc.MetricsInterval,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	pc := cfg.Profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           pc.Enabled,
		ServerAddress:     pc.ServerAddress,
		ApplicationName:   pc.ApplicationName,
		BasicAuthUser:     pc.BasicAuthUser,
		BasicAuthPassword: pc.BasicAuthPassword,
	}, log)
	if err != nil {
		return nil, err
	}
	if pc.Enabled && pc.SpanProfiles && tracer.IsEnabled() {
		tracer.EnableSpanProfiles()
	}

	return &telemetryStack{tracer: tracer, meter: meter, logs: logs, profiler: profiler}, nil
}

func (t *telemetryStack) shutdown(ctx context.Context, log *zap.Logger) {
	if err := t.profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	if err := t.meter.Shutdown(ctx); err != nil {
		log.Warn("Failed to shutdown meter provider", zap.Error(err))
	}
	if err := t.tracer.Shutdown(ctx); err != nil {
		log.Warn("Failed to shutdown tracer provider", zap.Error(err))
	}
	if err := t.logs.Shutdown(ctx); err != nil {
		log.Warn("Failed to shutdown logger provider", zap.Error(err))
	}
}

type application struct {
	documents *handler.DocumentHandler
	pages     *handler.PageHandler
	exports   *handler.ExportHandler
	system    *handler.SystemHandler

	closers []func() error
}

func (a *application) close(log *zap.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn("Failed to release resource", zap.Error(err))
		}
	}
}

// buildApp wires storage, rendering and the export pipeline behind the handlers
func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger, tel *telemetryStack) (*application, error) {
	app := &application{}

	store, err := persistence.OpenStore(ctx, cfg.Store, persistence.StoreOptions{
		Logger:   log,
		LogLevel: cfg.Log.Level,
		Tracing:  cfg.Telemetry.Enabled,
	})
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.Close)

	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	app.closers = append(app.closers, cacheFactory.Close)

	var repo shipping.Repository = store.Repository
	if cfg.Cache.Enabled {
		documentCache, err := cacheFactory.CreateDocumentCache(ctx, cfg.Cache.Driver, cfg.Cache.DocumentsTTL)
		if err != nil {
			return nil, err
		}
		repo = cache.NewCachedRepository(repo, documentCache)
	}
	documents := appshipping.NewDocumentService(repo, log)

	guard, err := cacheFactory.CreateGuard(ctx, cfg.Export.GuardDriver, cfg.Export.GuardTTL)
	if err != nil {
		return nil, err
	}

	var engineOpts []infraprinting.TemplateEngineOption
	if cfg.Printing.TemplateDir != "" {
		engineOpts = append(engineOpts, infraprinting.WithTemplateDir(cfg.Printing.TemplateDir))
	}
	templates, err := infraprinting.NewTemplateEngine(engineOpts...)
	if err != nil {
		return nil, err
	}
	renderer := appprinting.NewRenderService(documents, templates, infraprinting.ViewOptions{
		PublicBaseURL: cfg.Export.PublicBaseURL,
		QREndpoint:    cfg.Export.QREndpoint,
		QRSize:        cfg.Export.QRSize,
		LogoURL:       cfg.Printing.LogoURL,
	}, log)

	barrier, err := infraprinting.NewImageBarrier(&infraprinting.ImageBarrierConfig{
		BaseURL:      cfg.Export.ImageBaseURL,
		ImageTimeout: cfg.Export.ImageTimeout,
		Concurrency:  cfg.Export.ImageConcurrency,
		Logger:       log.Named("image_barrier"),
	})
	if err != nil {
		return nil, err
	}

	converter, err := infraprinting.NewChromedpConverter(&infraprinting.ChromedpConfig{
		DefaultTimeout: cfg.Printing.Timeout,
		RemoteURL:      cfg.Printing.ChromeRemoteURL,
		NoSandbox:      cfg.Printing.NoSandbox,
		Logger:         log.Named("chromedp"),
	})
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, converter.Close)

	archive, err := storage.NewArchive(ctx, cfg, log.Named("archive"))
	if err != nil {
		return nil, err
	}
	if closer, ok := archive.(io.Closer); ok {
		app.closers = append(app.closers, closer.Close)
	}

	recorder, err := telemetry.NewExportMetrics(tel.meter.Meter("shipdocs/export"))
	if err != nil {
		return nil, err
	}

	opts := []export.Option{
		export.WithPageCounter(infraprinting.NewPDFInspector()),
		export.WithRecorder(recorder),
		export.WithConvertTimeout(cfg.Printing.Timeout),
		export.WithLogger(log.Named("export")),
	}
	if archive != nil {
		opts = append(opts, export.WithArchive(archive))
	}
	pipeline := export.NewPipeline(documents, renderer, guard, barrier, converter, opts...)

	log.Info("Export pipeline ready",
		zap.String("guard", cfg.Export.GuardDriver),
		zap.String("archive", cfg.Export.Archive.Driver),
		zap.String("paper", string(printing.PaperSizeA4)))

	app.documents = handler.NewDocumentHandler(documents)
	app.pages = handler.NewPageHandler(documents, renderer, templates, guard)
	app.exports = handler.NewExportHandler(pipeline)
	app.system = handler.NewSystemHandler(store)
	return app, nil
}
