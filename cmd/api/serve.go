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

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/nexmart-api/internal/config"
	"github.com/xavierca1/nexmart-api/internal/infra/database"
	"github.com/xavierca1/nexmart-api/internal/infra/http/handlers"
	"github.com/xavierca1/nexmart-api/internal/infra/http/middleware"
	"github.com/xavierca1/nexmart-api/internal/infra/integration/stripe"
	"github.com/xavierca1/nexmart-api/internal/infra/queue"
	"github.com/xavierca1/nexmart-api/internal/infra/stream"
	"github.com/xavierca1/nexmart-api/internal/ratelimit"
	"github.com/xavierca1/nexmart-api/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
	}

	limiter := newLimiter(ctx, cfg, rdb)

	events, err := newEventBackend(cfg, log)
	if err != nil {
		return err
	}
	defer events.Close()

	var billing usecase.BillingPortal
	if cfg.StripeSecretKey != "" {
		billing = stripe.NewClient(cfg.StripeSecretKey, cfg.StripeAPIURL, log.Named("stripe"))
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, customer portal will answer 500")
	}
	if cfg.JWTSecret == "" {
		log.Warn("SUPABASE_JWT_SECRET not set, authenticated routes will answer 500")
	}

	leadRepo := database.NewLeadRepository(db)
	customerRepo := database.NewBillingCustomerRepository(db)
	subRepo := database.NewSubscriptionRepository(db)

	submitLeadUC := usecase.NewSubmitLeadUseCase(leadRepo, events.Publisher, log.Named("leads"))
	portalUC := usecase.NewCreatePortalSessionUseCase(customerRepo, billing, cfg.AppURL)
	statusUC := usecase.NewGetSubscriptionStatusUseCase(customerRepo, subRepo)
	syncUC := usecase.NewSyncSubscriptionUseCase(subRepo)

	router := newRouter(routes{
		Lead:         handlers.NewLeadHandler(submitLeadUC, limiter, cfg.TrustXFF, log.Named("leads")),
		Portal:       handlers.NewPortalHandler(portalUC, log.Named("portal")),
		Subscription: handlers.NewSubscriptionHandler(statusUC, log.Named("subscription")),
		Webhook:      handlers.NewWebhookHandler(syncUC, cfg.StripeWebhookSecret, log.Named("webhook")),
		Health:       handlers.NewHealthHandler(db, rdb, events.RabbitMQ, cfg.EventsBackend, cfg.StripeSecretKey != ""),
		Auth:         middleware.NewAuthenticator(cfg.JWTSecret),
		CORSOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("rate_limit_backend", cfg.RateLimitBackend),
			zap.String("events_backend", cfg.EventsBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLimiter(ctx context.Context, cfg config.Config, rdb *redis.Client) ratelimit.Limiter {
	if cfg.RateLimitBackend == config.BackendRedis {
		return ratelimit.NewRedisLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow, ratelimit.WithPrefix(cfg.RedisPrefix))
	}
	l := ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	l.StartJanitor(ctx)
	return l
}

type eventBackend struct {
	Publisher usecase.LeadEventPublisher
	RabbitMQ  *amqp.Connection
	closers   []func() error
}

func (e *eventBackend) Close() {
	for _, c := range e.closers {
		_ = c()
	}
}

func newEventBackend(cfg config.Config, log *zap.Logger) (*eventBackend, error) {
	switch cfg.EventsBackend {
	case config.BackendRabbitMQ:
		mq, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return nil, err
		}
		return &eventBackend{
			Publisher: queue.NewProducer(mq.Ch),
			RabbitMQ:  mq.Conn,
			closers:   []func() error{mq.Close},
		}, nil
	case config.BackendKafka:
		p := stream.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		return &eventBackend{Publisher: p, closers: []func() error{p.Close}}, nil
	default:
		log.Debug("lead events disabled")
		return &eventBackend{Publisher: usecase.NoopPublisher{}}, nil
	}
}
