package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"drought-service/internal/analysis"
	"drought-service/internal/config"
	"drought-service/internal/database/postgres"
	redisdb "drought-service/internal/database/redis"
	"drought-service/internal/event"
	"drought-service/internal/observability"
	"drought-service/internal/repository"
	"drought-service/internal/risk"
	"drought-service/internal/satellite"
	"drought-service/internal/worker"
	"drought-service/internal/zones"

	"github.com/joho/godotenv"
)

type readiness struct {
	check func(ctx context.Context) error
}

func (r readiness) CheckReadiness(ctx context.Context) error {
	return r.check(ctx)
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment as-is")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.New()

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		logger.Error("database connection failed, retrying", "error", err)
		postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := observability.NewMetrics()

	var analyzer satellite.Analyzer = satellite.NewHTTPAnalyzer(cfg.SatelliteCfg.ProviderURL, cfg.SatelliteCfg.Timeout)

	redisClient, err := redisdb.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		logger.Warn("redis unavailable, reading cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cache := satellite.NewReadingCache(redisClient.GetClient(), cfg.AnalysisCfg.CacheTTL)
		analyzer = satellite.NewCachingAnalyzer(analyzer, cache, metrics, logger)
	}

	rabbit, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		logger.Error("rabbitmq connection failed, alerts disabled", "error", err)
	} else {
		defer rabbit.Close()
	}

	var alerts analysis.AlertPublisher = noopAlerts{}
	if rabbit != nil {
		alerts = event.NewAlertPublisher(rabbit)
	}

	farms := repository.NewFarmRepository(db)
	readings := repository.NewReadingRepository(db)
	assessments := repository.NewAssessmentRepository(db)
	policies := repository.NewPolicyRepository(db)
	claimRepo := repository.NewClaimRepository(db)

	var assigner *analysis.ZoneAssigner
	if predictor, err := zones.LoadPredictor(cfg.ModelPath); err != nil {
		logger.Warn("zone model not loaded, zone assignment disabled", "path", cfg.ModelPath, "error", err)
	} else {
		logger.Info("zone model loaded", "path", cfg.ModelPath)
		assigner = analysis.NewZoneAssigner(predictor, readings, farms, logger)
	}

	scorer := risk.NewScorer(risk.ScorerConfig{
		NDVISevereThreshold: cfg.RiskCfg.NDVISevereThreshold,
		RainfallThresholdMM: cfg.RiskCfg.RainfallThresholdMM,
	})

	batch := analysis.NewBatchService(
		analyzer, scorer,
		readings, assessments, policies, claimRepo,
		alerts, metrics, logger,
		cfg.AnalysisCfg.Workers,
	)

	server := observability.NewServer(cfg.MetricsAddr, readiness{check: func(ctx context.Context) error {
		return db.PingContext(ctx)
	}}, logger)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("observability server failed", "error", err)
			cancel()
		}
	}()

	pool := worker.NewWorkingPool(2, 16)
	var managerWg sync.WaitGroup
	managerWg.Add(1)
	go pool.Start(ctx, &managerWg)

	scheduler := worker.NewJobScheduler("monthly-analysis", cfg.AnalysisCfg.CheckInterval, pool, nil)
	scheduler.AddJob(func(jobCtx context.Context) error {
		year, month := previousMonth(time.Now().UTC())

		if _, err := policies.ExpireEnded(jobCtx, time.Now().UTC()); err != nil {
			logger.Error("failed to expire policies", "error", err)
		}

		active, err := farms.GetActive(jobCtx)
		if err != nil {
			return err
		}
		if assigner != nil {
			assigner.AssignMissing(jobCtx, active)
		}
		batch.RunMonthly(jobCtx, active, year, month)
		return nil
	})
	go scheduler.Run(ctx)

	logger.Info("drought service started", "metrics_addr", cfg.MetricsAddr, "workers", cfg.AnalysisCfg.Workers)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("observability server shutdown failed", "error", err)
	}
	managerWg.Wait()
}

// previousMonth returns the (year, month) of the month before t. The
// batch always analyzes the last complete month.
func previousMonth(t time.Time) (int, int) {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := firstOfMonth.AddDate(0, 0, -1)
	return prev.Year(), int(prev.Month())
}

// noopAlerts drops alerts when RabbitMQ is unavailable.
type noopAlerts struct{}

func (noopAlerts) PublishAlert(context.Context, event.DroughtAlertEvent) error { return nil }
