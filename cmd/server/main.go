// Command server runs the engagement gRPC server: onboarding journey, daily content, moderation,
// preboarding readiness and the manager action queue.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"onboardflow/internal/audit"
	auditrepo "onboardflow/internal/audit/repository"
	"onboardflow/internal/config"
	"onboardflow/internal/content/catalog"
	"onboardflow/internal/content/feed"
	"onboardflow/internal/content/generator"
	"onboardflow/internal/db"
	"onboardflow/internal/engagement/handler"
	apphealth "onboardflow/internal/health"
	"onboardflow/internal/logging"
	moderationrepo "onboardflow/internal/moderation/repository"
	moderationsvc "onboardflow/internal/moderation/service"
	"onboardflow/internal/notify"
	onboardingsvc "onboardflow/internal/onboarding/service"
	"onboardflow/internal/policy/engine"
	"onboardflow/internal/preboarding/poller"
	preboardingrepo "onboardflow/internal/preboarding/repository"
	preboardingsvc "onboardflow/internal/preboarding/service"
	profilerepo "onboardflow/internal/profile/repository"
	profilesvc "onboardflow/internal/profile/service"
	"onboardflow/internal/server"
	"onboardflow/internal/server/interceptors"
	teamrepo "onboardflow/internal/team/repository"
	teamsvc "onboardflow/internal/team/service"
	"onboardflow/internal/telemetry/otel"
	"onboardflow/internal/telemetry/producer"
)

const (
	healthInterval = 10 * time.Second
	drainTimeout   = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

// repositories groups the storage of every service; Postgres when DATABASE_URL is set, memory otherwise.
type repositories struct {
	profiles    profilerepo.Repository
	items       preboardingrepo.Repository
	flags       moderationrepo.Repository
	team        teamrepo.Repository
	activity    auditrepo.Repository
	pinger      apphealth.Pinger
	close       func() error
	description string
}

func openRepositories(ctx context.Context, dsn string) (*repositories, error) {
	if dsn == "" {
		return &repositories{
			profiles:    profilerepo.NewMemoryRepository(),
			items:       preboardingrepo.NewMemoryRepository(),
			flags:       moderationrepo.NewMemoryRepository(),
			team:        teamrepo.NewMemoryRepository(),
			activity:    auditrepo.NewMemoryRepository(),
			close:       func() error { return nil },
			description: "memory",
		}, nil
	}
	conn, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return postgresRepositories(conn), nil
}

func postgresRepositories(conn *sql.DB) *repositories {
	return &repositories{
		profiles:    profilerepo.NewPostgresRepository(conn),
		items:       preboardingrepo.NewPostgresRepository(conn),
		flags:       moderationrepo.NewPostgresRepository(conn),
		team:        teamrepo.NewPostgresRepository(conn),
		activity:    auditrepo.NewPostgresRepository(conn),
		pinger:      conn,
		close:       conn.Close,
		description: "postgres",
	}
}

func notificationSink(cfg *config.Config, providers *otel.Providers, logger *zap.Logger) (notify.Sink, func() error) {
	sinks := notify.Multi{otel.NewNotificationSink(providers.LoggerProvider)}
	closeFn := func() error { return nil }
	if brokers := cfg.KafkaBrokersList(); len(brokers) > 0 {
		kafka := producer.NewKafkaSink(brokers, cfg.NotifyKafkaTopic)
		if kafka != nil {
			sinks = append(sinks, kafka)
			closeFn = kafka.Close
			logger.Info("notifications: kafka enabled", zap.Strings("brokers", brokers), zap.String("topic", cfg.NotifyKafkaTopic))
		}
	}
	return sinks, closeFn
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	providers, err := otel.NewProviders(ctx, otel.Settings{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Insecure:    cfg.OTLPInsecure,
	}, logger)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	repos, err := openRepositories(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() { _ = repos.close() }()
	logger.Info("storage ready", zap.String("backend", repos.description))

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	module, err := engine.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return err
	}
	classifier, err := engine.NewOPAEvaluator(ctx, module, logger)
	if err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	sink, closeSink := notificationSink(cfg, providers, logger)
	defer func() { _ = closeSink() }()
	dispatcher := notify.NewDispatcher(sink, logger)
	auditLogger := audit.NewLogger(repos.activity, interceptors.ClientIP, logger)
	meter := providers.Meter()

	store := profilesvc.NewStore(repos.profiles, logger)
	journey := onboardingsvc.NewJourney(store, logger,
		onboardingsvc.WithAudit(auditLogger), onboardingsvc.WithNotifier(dispatcher))
	moderation := moderationsvc.NewService(repos.flags, logger,
		moderationsvc.WithAudit(auditLogger), moderationsvc.WithNotifier(dispatcher), moderationsvc.WithMeter(meter))
	gen := generator.NewService(generator.SimulatedGenerator{Latency: cfg.Latency()}, cfg.Timeout(), logger,
		generator.WithTelemetry(providers.Tracer(), meter))
	content := feed.NewService(store, cat, gen, logger, feed.WithModeration(moderation))
	preboarding := preboardingsvc.NewService(repos.items, logger,
		preboardingsvc.WithAudit(auditLogger), preboardingsvc.WithNotifier(dispatcher))
	team := teamsvc.NewService(repos.team, logger,
		teamsvc.WithClassifier(classifier), teamsvc.WithAudit(auditLogger), teamsvc.WithNotifier(dispatcher))

	readiness := poller.New(preboarding, cfg.PollInterval(), logger, poller.WithWatchTTL(cfg.WatchTTL()))
	readiness.OnUpdate(func(s preboardingsvc.Snapshot) {
		logger.Debug("preboarding: readiness refreshed",
			zap.String("user_id", s.UserID), zap.Int("overall_score", s.Score.OverallScore), zap.Int("blocked_items", s.Score.BlockedItems))
	})

	hs := health.NewServer()
	var pinger apphealth.Pinger
	if repos.pinger != nil {
		pinger = repos.pinger
	}
	checker := apphealth.NewChecker(pinger, classifier, logger)

	srv := server.NewServer(server.Deps{
		Services: handler.Services{
			Profiles:    store,
			Journey:     journey,
			Feed:        content,
			Moderation:  moderation,
			Preboarding: preboarding,
			Poller:      readiness,
			Team:        team,
			Activity:    repos.activity,
		},
		AuditRepo: repos.activity,
		Health:    hs,
		Meter:     meter,
	}, logger)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error { return readiness.Run(gctx) })
	g.Go(func() error {
		checker.Run(gctx, hs, healthInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down gRPC server")
		srv.GracefulStop()
		return nil
	})
	err = g.Wait()

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if derr := dispatcher.Drain(drainCtx); derr != nil {
		logger.Warn("notifications: drain incomplete", zap.Error(derr))
	}
	logger.Info("gRPC server stopped")
	return err
}
