// Package app wires configuration, storage, clients, and services into the
// shared application core used by cmd/fintrack-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fintrack/fintrack/internal/clients/finnhub"
	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/interfaces"
	"github.com/fintrack/fintrack/internal/services/alert"
	"github.com/fintrack/fintrack/internal/services/ledger"
	"github.com/fintrack/fintrack/internal/services/portfolio"
	"github.com/fintrack/fintrack/internal/services/quote"
	"github.com/fintrack/fintrack/internal/services/watchlist"
	"github.com/fintrack/fintrack/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	FinnhubClient    interfaces.FinnhubClient
	QuoteService     interfaces.QuoteService
	LedgerService    interfaces.LedgerService
	PortfolioService interfaces.PortfolioService
	WatchlistService interfaces.WatchlistService
	AlertService     interfaces.AlertService
	StartupTime      time.Time

	scheduler *Scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Resolve config path: flag, FINTRACK_CONFIG, binary dir, then dev fallback
	if configPath == "" {
		configPath = os.Getenv("FINTRACK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "fintrack.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/fintrack.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if config.Clients.Finnhub.APIKey == "" {
		logger.Warn().Msg("Finnhub API key not configured - live quotes will be unavailable")
	}
	finnhubClient := finnhub.NewClient(config.Clients.Finnhub.APIKey,
		finnhub.WithBaseURL(config.Clients.Finnhub.BaseURL),
		finnhub.WithLogger(logger),
		finnhub.WithRateLimit(config.Clients.Finnhub.RateLimit),
		finnhub.WithTimeout(config.Clients.Finnhub.GetTimeout()),
	)

	quoteService := quote.NewService(finnhubClient, config.Clients.Finnhub.GetQuoteTTL(), logger)
	ledgerService := ledger.NewService(storageManager, config.Ledger, logger)
	portfolioService := portfolio.NewService(storageManager, quoteService, logger)
	watchlistService := watchlist.NewService(storageManager, logger)
	alertSink := alert.NewStoreSink(storageManager.Notifications())
	alertService := alert.NewService(storageManager, quoteService, alertSink, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		FinnhubClient:    finnhubClient,
		QuoteService:     quoteService,
		LedgerService:    ledgerService,
		PortfolioService: portfolioService,
		WatchlistService: watchlistService,
		AlertService:     alertService,
		StartupTime:      time.Now(),
	}

	if config.Scheduler.Enabled {
		sched, err := NewScheduler(a)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
		}
		a.scheduler = sched
		a.scheduler.Start()
	}

	logger.Info().
		Str("version", common.GetVersion()).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return a, nil
}

// Close stops the scheduler and releases storage.
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
