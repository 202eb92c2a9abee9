package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/time/rate"

	"github.com/semalign/hub/internal/api/handlers"
	"github.com/semalign/hub/internal/api/middleware"
	"github.com/semalign/hub/internal/config"
	"github.com/semalign/hub/internal/googleai"
	"github.com/semalign/hub/internal/observability"
	"github.com/semalign/hub/internal/openai"
	"github.com/semalign/hub/internal/repository"
	"github.com/semalign/hub/internal/service"
)

// App holds all server dependencies and coordinates startup and shutdown.
type App struct {
	cfg            *config.Config
	db             *pgxpool.Pool
	server         *http.Server
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	metrics        *observability.Metrics
}

var errUnsupportedEmbeddingProvider = errors.New("unsupported embedding provider")

const (
	embeddingProviderOpenAI = "openai"
	embeddingProviderGoogle = "google"
)

// setupMetrics creates meter provider and hub metrics when metrics are enabled.
// When NewMeterProvider returns nil (unsupported or disabled exporter), returns (nil, nil, nil) (metrics disabled).
func setupMetrics(cfg *config.Config) (*sdkmetric.MeterProvider, *observability.Metrics, error) {
	mp, err := observability.NewMeterProvider(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create meter provider: %w", err)
	}

	if mp == nil {
		return nil, nil, nil
	}

	metrics, err := observability.NewMetrics(mp.Meter("semalign"))
	if err != nil {
		if err2 := observability.ShutdownMeterProvider(context.Background(), mp); err2 != nil {
			slog.Error("shutdown meter provider after metrics error", "error", err2)
		}

		return nil, nil, fmt.Errorf("create metrics: %w", err)
	}

	return mp, metrics, nil
}

// newEmbeddingClient builds the provider-specific embedding client.
func newEmbeddingClient(cfg *config.Config) (service.EmbeddingClient, error) {
	switch cfg.EmbeddingProvider {
	case embeddingProviderOpenAI:
		return openai.NewClient(cfg.EmbeddingProviderAPIKey,
			openai.WithModel(cfg.EmbeddingModel),
			openai.WithDimensions(cfg.EmbeddingDimensions),
			openai.WithCompletionModel(cfg.CompletionModel),
		), nil
	case embeddingProviderGoogle:
		client, err := googleai.NewClient(context.Background(), cfg.EmbeddingProviderAPIKey,
			googleai.WithModel(cfg.EmbeddingModel),
			googleai.WithDimensions(cfg.EmbeddingDimensions),
		)
		if err != nil {
			return nil, fmt.Errorf("create google embedding client: %w", err)
		}

		return client, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedEmbeddingProvider, cfg.EmbeddingProvider)
	}
}

// NewApp builds and wires all components. It does not start the HTTP server;
// call Run to start and block until shutdown or failure.
func NewApp(cfg *config.Config, db *pgxpool.Pool) (*App, error) {
	var (
		err           error
		meterProvider *sdkmetric.MeterProvider
		metrics       *observability.Metrics
	)

	if cfg.OtelMetricsExporter == "" {
		slog.Warn("metrics not enabled (OTEL_METRICS_EXPORTER empty or unset)")
	} else {
		meterProvider, metrics, err = setupMetrics(cfg)
		if err != nil {
			return nil, err
		}
	}

	var tracerProvider *sdktrace.TracerProvider

	if cfg.OtelTracesExporter == "" {
		slog.Warn("tracing not enabled (OTEL_TRACES_EXPORTER empty or unset)")
	} else {
		tracerProvider, err = observability.NewTracerProvider(cfg)
		if err != nil {
			if meterProvider != nil {
				if err2 := observability.ShutdownMeterProvider(context.Background(), meterProvider); err2 != nil {
					slog.Error("shutdown meter provider after tracer provider error", "error", err2)
				}
			}

			return nil, fmt.Errorf("create tracer provider: %w", err)
		}
	}

	// Install TraceContextHandler unconditionally so request_id (and trace_id/span_id when tracing is on) appear in logs.
	defaultHandler := slog.Default().Handler()
	slog.SetDefault(slog.New(observability.NewTraceContextHandler(defaultHandler)))

	if tracerProvider != nil {
		otel.SetTracerProvider(tracerProvider)
	}

	if meterProvider != nil {
		otel.SetMeterProvider(meterProvider)
	}

	var (
		embeddingMetrics observability.EmbeddingMetrics
		cacheMetrics     observability.CacheMetrics
	)

	if metrics != nil {
		embeddingMetrics = metrics.Embeddings
		cacheMetrics = metrics.Cache
	}

	respondentsRepo := repository.NewRespondentsRepository(db)
	embeddingsRepo := repository.NewEmbeddingsRepository(db)
	comparisonsRepo := repository.NewComparisonsRepository(db)
	customQuestionsRepo := repository.NewCustomQuestionsRepository(db)

	var (
		respondentsHandler     *handlers.RespondentsHandler
		customQuestionsHandler *handlers.CustomQuestionsHandler
	)

	if cfg.EmbeddingProvider == "" {
		// Without a provider no new answers can be embedded, so intake and the
		// custom-question flow stay unregistered. Stored data remains readable.
		slog.Warn("respondent intake disabled (EMBEDDING_PROVIDER empty or unset)")
	} else {
		providerClient, err := newEmbeddingClient(cfg)
		if err != nil {
			return nil, err
		}

		policy := service.RetryPolicy{MaxRetries: cfg.EmbeddingMaxAttempts - 1}
		limiter := rate.NewLimiter(rate.Limit(cfg.EmbeddingRateLimit), 1)

		embeddingClient := service.NewRetryingEmbeddingClient(providerClient, policy, limiter, embeddingMetrics)

		resolver, err := service.NewResolver(
			embeddingClient, embeddingsRepo, cfg.ResolverCacheSize, embeddingMetrics, cacheMetrics,
		)
		if err != nil {
			return nil, err
		}

		model := cfg.EmbeddingModel
		if model == "" {
			model = "default"
		}

		respondentsService := service.NewRespondentsService(respondentsRepo, resolver, model)
		respondentsHandler = handlers.NewRespondentsHandler(respondentsService)

		// The completion flow needs a chat model; only the OpenAI client has one.
		if completionProvider, ok := providerClient.(service.CompletionClient); ok {
			completionClient := service.NewRetryingCompletionClient(completionProvider, policy, limiter, embeddingMetrics)
			customQuestionsService := service.NewCustomQuestionsService(customQuestionsRepo, completionClient, embeddingClient)
			customQuestionsHandler = handlers.NewCustomQuestionsHandler(customQuestionsService)
		} else {
			slog.Warn("custom questions disabled (provider has no completion support)",
				"provider", cfg.EmbeddingProvider)
		}
	}

	similarityService := service.NewSimilarityService(embeddingsRepo, comparisonsRepo, cfg.ReferenceUID, embeddingMetrics)
	comparisonsHandler := handlers.NewComparisonsHandler(similarityService)

	demographicsService := service.NewDemographicsService(respondentsRepo, comparisonsRepo)
	demographicsHandler := handlers.NewDemographicsHandler(demographicsService, cfg.SimilarityFloor)

	healthHandler := handlers.NewHealthHandler()
	questionsHandler := handlers.NewQuestionsHandler()

	server := newHTTPServer(
		cfg, healthHandler, questionsHandler, respondentsHandler, comparisonsHandler, demographicsHandler,
		customQuestionsHandler, meterProvider, tracerProvider,
	)

	return &App{
		cfg:            cfg,
		db:             db,
		server:         server,
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		metrics:        metrics,
	}, nil
}

// newHTTPServer builds the HTTP server and muxes (no auth on /health, API key on /v1/).
// Handler chain: RequestID -> otelhttp(Logging(mux)) so access logs get trace_id/span_id from context.
func newHTTPServer(
	cfg *config.Config,
	health *handlers.HealthHandler,
	questions *handlers.QuestionsHandler,
	respondents *handlers.RespondentsHandler,
	comparisons *handlers.ComparisonsHandler,
	demographics *handlers.DemographicsHandler,
	customQuestions *handlers.CustomQuestionsHandler,
	meterProvider *sdkmetric.MeterProvider,
	tracerProvider *sdktrace.TracerProvider,
) *http.Server {
	public := http.NewServeMux()
	public.HandleFunc("GET /health", health.Check)

	protected := http.NewServeMux()
	protected.HandleFunc("GET /v1/questions", questions.List)

	// Respondents is nil when no embedding provider is configured; intake is
	// not registered then but stored respondents stay readable.
	if respondents != nil {
		protected.HandleFunc("POST /v1/respondents", respondents.Create)
		protected.HandleFunc("GET /v1/respondents", respondents.List)
		protected.HandleFunc("GET /v1/respondents/{uid}", respondents.Get)
	}

	protected.HandleFunc("POST /v1/respondents/{uid}/comparisons", comparisons.Create)
	protected.HandleFunc("GET /v1/respondents/{uid}/similarity/{other}", comparisons.Similarity)
	protected.HandleFunc("GET /v1/comparisons", comparisons.List)

	protected.HandleFunc("GET /v1/demographics/summary", demographics.Summary)

	if customQuestions != nil {
		protected.HandleFunc("POST /v1/custom-questions", customQuestions.Create)
		protected.HandleFunc("GET /v1/custom-questions", customQuestions.List)
	}

	protectedWithAuth := middleware.Auth(cfg.APIKey)(protected)
	mux := http.NewServeMux()
	mux.Handle("/v1/", protectedWithAuth)
	mux.Handle("/", public)

	otelOpts := []otelhttp.Option{
		// Skip tracing and HTTP metrics for health checks to reduce noise.
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	}
	if meterProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithMeterProvider(meterProvider))
	}

	if tracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(tracerProvider))
	}

	// Logging runs inside otelhttp so r.Context() has the span when we log (trace_id/span_id in access logs).
	inner := middleware.Logging(mux)
	handler := otelhttp.NewHandler(inner, "semalign-api", otelOpts...)
	handler = middleware.MaxBody(cfg.MaxRequestBodyBytes)(handler)
	handler = middleware.RequestID(handler)

	const (
		readTimeout  = 15 * time.Second
		writeTimeout = 60 * time.Second
		idleTimeout  = 60 * time.Second
	)

	// writeTimeout is generous: respondent intake makes up to eight provider
	// calls with retries before responding.
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled (e.g. signal)
// or the server fails. Caller should then call Shutdown.
func (a *App) Run(ctx context.Context) error {
	runErr := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "port", a.cfg.Port)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case runErr <- fmt.Errorf("server: %w", err):
			default:
			}
		}
	}()

	select {
	case err := <-runErr:
		return err
	case <-ctx.Done():
		return nil
	}
}

// shutdownObservability shuts down tracer and meter providers. Logs secondary errors, returns the first.
func shutdownObservability(ctx context.Context, tracer *sdktrace.TracerProvider, meter *sdkmetric.MeterProvider) error {
	var first error

	if tracer != nil {
		if err := observability.ShutdownTracerProvider(ctx, tracer); err != nil {
			first = err
		}
	}

	if meter != nil {
		if err := observability.ShutdownMeterProvider(ctx, meter); err != nil {
			if first == nil {
				first = err
			} else {
				slog.Error("shutdown meter provider", "error", err)
			}
		}
	}

	return first
}

// Shutdown stops the server, then flushes observability. Call after Run returns.
func (a *App) Shutdown(ctx context.Context) (err error) {
	defer func() {
		obsErr := shutdownObservability(ctx, a.tracerProvider, a.meterProvider)
		if err == nil {
			err = obsErr
		} else if obsErr != nil {
			slog.Error("shutdown observability", "error", obsErr)
		}
	}()

	if err = a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
