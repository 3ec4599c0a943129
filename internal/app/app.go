package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/goalsight/matchaudit/external/footdata"
	"github.com/goalsight/matchaudit/external/webhook"
	"github.com/goalsight/matchaudit/internal/config"
	"github.com/goalsight/matchaudit/internal/domain/match"
	"github.com/goalsight/matchaudit/internal/domain/report"
	cacherepo "github.com/goalsight/matchaudit/internal/infrastructure/repository/cache"
	"github.com/goalsight/matchaudit/internal/infrastructure/repository/memory"
	"github.com/goalsight/matchaudit/internal/infrastructure/repository/postgres"
	"github.com/goalsight/matchaudit/internal/interfaces/httpapi"
	"github.com/goalsight/matchaudit/internal/platform/cache"
	idgen "github.com/goalsight/matchaudit/internal/platform/id"
	"github.com/goalsight/matchaudit/internal/platform/logging"
	"github.com/goalsight/matchaudit/internal/platform/resilience"
	"github.com/goalsight/matchaudit/internal/usecase"
)

// Application bundles the wired HTTP server with the resources it owns.
type Application struct {
	Server *http.Server
	db     *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger, accessLogger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if accessLogger == nil {
		accessLogger = slog.Default()
	}

	var (
		db         *sqlx.DB
		matchRepo  match.Repository
		reportRepo report.Repository
	)
	if cfg.DBURL != "" {
		opened, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		db = opened
		matchRepo = cacherepo.NewMatchRepository(postgres.NewMatchRepository(db), cache.NewStore(2*time.Minute))
		reportRepo = postgres.NewReportRepository(db)
		logger.Info("storage configured", "backend", "postgres", "db", dbNameFromURL(cfg.DBURL))
	} else {
		matchRepo = memory.NewMatchRepository(memory.SeedMatches())
		reportRepo = memory.NewReportRepository()
		logger.Info("storage configured", "backend", "memory")
	}

	var provider usecase.PanelProvider
	if cfg.FootDataEnabled {
		provider = footdata.NewClient(footdata.ClientConfig{
			BaseURL:    cfg.FootDataBaseURL,
			APIKey:     cfg.FootDataAPIKey,
			Timeout:    cfg.FootDataTimeout,
			MaxRetries: cfg.FootDataMaxRetries,
			Logger:     logger,
			Breaker: resilience.BreakerConfig{
				Enabled:          cfg.FootDataCircuitEnabled,
				FailureThreshold: cfg.FootDataCircuitFailureCount,
				OpenTimeout:      cfg.FootDataCircuitOpenTimeout,
				HalfOpenProbes:   cfg.FootDataCircuitHalfOpenProbes,
			},
		})
	}

	var publisher usecase.ReportPublisher
	if cfg.WebhookEnabled {
		pub, err := webhook.NewPublisher(webhook.PublisherConfig{
			URL:     cfg.WebhookURL,
			Token:   cfg.WebhookToken,
			Timeout: cfg.WebhookTimeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("build report webhook publisher: %w", err)
		}
		publisher = pub
	}

	validateSvc := usecase.NewValidateService(idgen.NewRandomGenerator(), logger)
	auditSvc := usecase.NewAuditService(
		provider,
		matchRepo,
		reportRepo,
		validateSvc,
		publisher,
		cfg.AuditWindowSize,
		cfg.AuditBatchWorkers,
		logger,
	)
	windowSvc := usecase.NewWindowStatsService(matchRepo, logger)
	reportSvc := usecase.NewReportService(reportRepo, logger)

	handler := httpapi.NewHandler(auditSvc, windowSvc, reportSvc, accessLogger)
	router := httpapi.NewRouter(handler, accessLogger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &Application{Server: server, db: db}, nil
}

// Close releases pooled resources; safe to call once on shutdown.
func (a *Application) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, true)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
