package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"connectrpc.com/connect"
	"github.com/castlemilk/pfinance/automation/internal/ai"
	"github.com/castlemilk/pfinance/automation/internal/allocator"
	"github.com/castlemilk/pfinance/automation/internal/auth"
	"github.com/castlemilk/pfinance/automation/internal/config"
	"github.com/castlemilk/pfinance/automation/internal/logging"
	"github.com/castlemilk/pfinance/automation/internal/rpc"
	"github.com/castlemilk/pfinance/automation/internal/service"
	"github.com/castlemilk/pfinance/automation/internal/store"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithContext(ctx, logger)

	storeImpl, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
	}
	defer closeStore()

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithDuplicateWindow(cfg.DuplicateWindowDays),
	}
	if cfg.BudgetBucketsFile != "" {
		data, err := os.ReadFile(cfg.BudgetBucketsFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.BudgetBucketsFile).Msg("failed to read budget buckets")
		}
		buckets, err := allocator.ParseBucketConfig(data)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.BudgetBucketsFile).Msg("invalid budget buckets")
		}
		opts = append(opts, service.WithAllocator(allocator.New(buckets)))
	}

	var aiClient *ai.Client
	if cfg.GeminiAPIKey != "" {
		gen, err := ai.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create Gemini client")
		}
		aiClient = ai.NewClient(gen)
		logger.Info().Str("model", cfg.GeminiModel).Msg("AI suggestions enabled")
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set; budget suggestions and insights use fallbacks")
	}

	financeService := service.NewFinanceService(storeImpl, aiClient, opts...)

	// Debug interceptor first so impersonation can pre-populate claims.
	interceptors := []connect.Interceptor{auth.DebugAuthInterceptor(cfg.SkipAuth || cfg.Local)}
	if cfg.UsesAuth() {
		firebaseAuth, err := auth.NewFirebaseAuth(ctx, cfg.ProjectID)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize Firebase Auth")
		}
		interceptors = append(interceptors, auth.AuthInterceptor(firebaseAuth))
	} else {
		logger.Warn().Msg("using mock authentication")
		interceptors = append(interceptors, auth.LocalDevInterceptor())
	}

	path, handler := rpc.NewAutomationServiceHandler(
		financeService,
		connect.WithInterceptors(interceptors...),
	)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			"Content-Type",
			"User-Agent",
			"X-User-Agent",
			logging.RequestIDHeader,
			"X-Debug-Impersonate-User",
			"X-Debug-Scheduler",
		},
		ExposedHeaders:   []string{logging.RequestIDHeader},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           h2c.NewHandler(logging.Middleware(logger)(c.Handler(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("server stopped")
}

// openStore connects the configured backend and returns a func that releases it.
func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Info().Msg("using in-memory store")
		return store.NewMemoryStore(), func() {}, nil

	case config.BackendMongo:
		client, err := store.ConnectToMongoDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
			}
		}
		return store.NewMongoStore(client, cfg.MongoDatabase), closeFn, nil

	default:
		client, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Firestore client: %w", err)
		}
		return store.NewFirestoreStore(client), func() { client.Close() }, nil
	}
}
