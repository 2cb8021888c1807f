package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/handmade-storefront/internal/domain/auth"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/events"
	"github.com/xenking/handmade-storefront/internal/handler"
	"github.com/xenking/handmade-storefront/internal/storage/mongo"
	"github.com/xenking/handmade-storefront/internal/storage/postgres"
	"github.com/xenking/handmade-storefront/pkg/health"
	"github.com/xenking/handmade-storefront/pkg/httpmiddleware"
)

// Publisher is the event sink shared by the order and inquiry services.
type Publisher interface {
	order.Events
	inquiry.Events
	Close() error
}

func newPublisher(lg *zap.Logger, cfg KafkaConfig) Publisher {
	if len(cfg.Brokers) == 0 {
		lg.Info("Kafka brokers not configured, events disabled")
		return events.Nop{}
	}
	lg.Info("Publishing events", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the backend.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddLivenessCheck("heap", time.Second, health.HeapCheck(1<<30))

	// Repositories.
	catalogRepo := postgres.NewCatalogRepository(pool)
	contentRepo := postgres.NewContentRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	inquiryRepo := postgres.NewInquiryRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	var submissions inquiry.Repository = inquiryRepo
	if cfg.Submissions.Backend == SubmissionsMongo {
		db, err := mongo.Connect(ctx, cfg.Submissions.MongoURI, cfg.Submissions.MongoDatabase)
		if err != nil {
			return errors.Wrap(err, "connect mongo")
		}
		defer func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				lg.Warn("Mongo disconnect", zap.Error(err))
			}
		}()
		repo := mongo.NewSubmissionRepository(db)
		if err := repo.CreateIndexes(ctx); err != nil {
			return errors.Wrap(err, "create mongo indexes")
		}
		healthSvc.AddReadinessCheck("mongo", 5*time.Second, func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		})
		submissions = repo
		lg.Info("Storing submissions in MongoDB", zap.String("database", cfg.Submissions.MongoDatabase))
	}

	publisher := newPublisher(lg, cfg.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			lg.Warn("Close event publisher", zap.Error(err))
		}
	}()

	// Domain services.
	orderService := order.NewService(catalogRepo, orderRepo,
		order.WithEvents(publisher),
		order.WithTracerProvider(m.TracerProvider()),
		order.WithMeterProvider(m.MeterProvider()),
	)
	inquiryService := inquiry.NewService(submissions, inquiryRepo, publisher)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(userRepo, tokens)

	// Startup probes: warm the idempotency filter and make sure the impact
	// row exists before the first request.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return orderService.Warm(gCtx)
	})
	g.Go(func() error {
		_, err := contentRepo.Impact(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "startup")
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	h := handler.New(handler.Deps{
		Catalog:   catalogRepo,
		Content:   contentRepo,
		Orders:    orderService,
		Inquiries: inquiryService,
		Auth:      authService,
		Tokens:    tokens,
	})
	router := h.Router(
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
	)
	router.Get("/livez", healthSvc.LiveEndpoint)
	router.Get("/readyz", healthSvc.ReadyEndpoint)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(router,
			httpmiddleware.Recovery(),
			httpmiddleware.SecurityHeaders(httpmiddleware.DefaultContentSecurityPolicy),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     []string{cfg.FrontendURL},
				AllowHeaders:     []string{"Content-Type", "Authorization", handler.IdempotencyHeader},
				AllowCredentials: true,
				MaxAge:           86400,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("handmade-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
