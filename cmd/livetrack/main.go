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

	"livetrack/internal/app/service"
	"livetrack/internal/app/ticker"
	"livetrack/internal/client"
	"livetrack/internal/domain/entity"
	"livetrack/internal/infrastructure/catalog"
	"livetrack/internal/infrastructure/configloader"
	"livetrack/internal/infrastructure/holdingsloader"
	"livetrack/internal/infrastructure/holdingstore"
	"livetrack/internal/infrastructure/localstate"
	"livetrack/internal/infrastructure/restapi"
	"livetrack/internal/pkg/logger"
	"livetrack/internal/pkg/metrics"
	"livetrack/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Предварительная инициализация базового логгера для самой ранней загрузки конфига
	tempZapLogger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize temporary zapLogger: %v\n", err)
		os.Exit(1)
	}

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		tempZapLogger.Fatal("Не удалось загрузить конфигурацию", zap.String("файл", cfgPath), zap.Error(err))
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		tempZapLogger.Fatal("Не удалось инициализировать основной zapLogger", zap.Error(err))
	}
	defer zapLogger.Sync()
	logger.InitWithZap(zapLogger, cfg.Logging.Level)

	appLogger := logger.NewSlogAdapter()
	logger.Info("Configuration loaded", "path", cfgPath)

	metrics.MustRegisterMetrics()

	// Клиенты внешних API
	marketClient := client.NewCoinGeckoClient(client.CoinGeckoOptions{
		BaseURL:           cfg.CoinGecko.BaseURL,
		APIKey:            cfg.CoinGecko.APIKey,
		APIKeyHeader:      cfg.CoinGecko.APIKeyHeader,
		Timeout:           time.Duration(cfg.CoinGecko.ClientTimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.CoinGecko.RequestsPerMinute,
	}, zapLogger.Named("CoinGeckoAPIClient"))

	dexScreenerClient := client.NewDEXScreenerClient(
		cfg.DEXScreener.BaseURL,
		time.Duration(cfg.DEXScreener.RequestTimeoutMillis)*time.Millisecond,
		zapLogger.Named("DEXScreenerAPIClient"),
		cfg.DEXScreener.MaxTokensPerRequest,
	)

	coinCatalog, err := catalog.New(appLogger, cfg.Catalog.OverrideFile)
	if err != nil {
		logger.Fatal("Не удалось загрузить каталог монет", "ошибка", err)
	}

	var seed []entity.Holding
	if cfg.Holdings.SeedFile != "" {
		seed, err = holdingsloader.NewHoldingsFileLoader(cfg.Holdings.SeedFile, appLogger.Info).LoadHoldings()
		if err != nil {
			logger.Warn("Holdings seed file could not be read, starting empty", "error", err)
		}
	}
	store := holdingstore.New(appLogger, cfg.Holdings.MaxHoldings, seed)

	state, err := localstate.NewFileStore(cfg.LocalState.FilePath, cfg.LocalState.DefaultProfitGoal, appLogger)
	if err != nil {
		logger.Fatal("Не удалось открыть локальное состояние", "ошибка", err)
	}

	marketService := service.NewMarketService(marketClient, appLogger, cfg)
	memeService := service.NewMemeService(dexScreenerClient, coinCatalog, appLogger, cfg)
	tracker := service.NewTrackerService(store, marketService, appLogger, service.TrackerOptions{
		Currency:         cfg.DefaultCurrency(),
		SnapshotInterval: cfg.SnapshotInterval(),
		TickInterval:     cfg.TickInterval(),
		FetchTimeout:     time.Duration(cfg.Tracker.FetchTimeoutSeconds) * time.Second,
		Simulator:        ticker.NewSimulator(ticker.WithEnvelope(cfg.Tracker.MinTickFactor, cfg.Tracker.MaxTickFactor)),
	})

	gin.SetMode(cfg.Server.GinMode)
	router := restapi.SetupRouter(cfg, zapLogger, restapi.Handlers{
		Portfolio: restapi.NewPortfolioHandler(tracker, state, appLogger),
		Market:    restapi.NewMarketHandler(marketService, memeService, coinCatalog, tracker),
		State:     restapi.NewStateHandler(state, tracker),
	})

	readTimeout, writeTimeout, idleTimeout := cfg.ServerTimeouts()
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tracker.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("Запуск HTTP сервера", "адрес", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Получен сигнал завершения. Завершение работы HTTP сервера...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Сервис остановлен с ошибкой", "ошибка", err)
		os.Exit(1)
	}
	logger.Info("Сервис остановлен.")
}
