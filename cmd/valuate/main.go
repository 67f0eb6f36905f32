// Command valuate prints a one-shot valuation of a holdings file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"livetrack/internal/app/service"
	"livetrack/internal/app/valuation"
	"livetrack/internal/client"
	"livetrack/internal/domain/entity"
	"livetrack/internal/infrastructure/configloader"
	"livetrack/internal/infrastructure/holdingsloader"
	"livetrack/internal/pkg/logger"
	"livetrack/internal/pkg/utils"
)

func main() {
	cfgPath := flag.String("config", utils.GetEnv("CONFIG_PATH", "config/config.yml"), "path to the YAML config")
	holdingsPath := flag.String("holdings", "", "holdings file (coin_id amount [avg_buy_price] per line); defaults to holdings.seedFile")
	currency := flag.String("currency", "", "quote currency (USD, EUR, GBP); defaults to tracker.defaultCurrency")
	flag.Parse()

	cfg, err := configloader.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger.InitWithZap(zapLogger, cfg.Logging.Level)
	appLogger := logger.NewSlogAdapter()

	cur := cfg.DefaultCurrency()
	if *currency != "" {
		if cur, err = entity.ParseCurrency(*currency); err != nil {
			logger.Fatal("Invalid currency", "error", err)
		}
	}

	path := *holdingsPath
	if path == "" {
		path = cfg.Holdings.SeedFile
	}
	holdings, err := holdingsloader.NewHoldingsFileLoader(path, appLogger.Debug).LoadHoldings()
	if err != nil {
		logger.Fatal("Failed to load holdings", "error", err)
	}
	for i := range holdings {
		holdings[i].ID = holdings[i].CoinID
	}

	marketClient := client.NewCoinGeckoClient(client.CoinGeckoOptions{
		BaseURL:           cfg.CoinGecko.BaseURL,
		APIKey:            cfg.CoinGecko.APIKey,
		APIKeyHeader:      cfg.CoinGecko.APIKeyHeader,
		Timeout:           time.Duration(cfg.CoinGecko.ClientTimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.CoinGecko.RequestsPerMinute,
	}, zapLogger.Named("CoinGeckoAPIClient"))
	marketService := service.NewMarketService(marketClient, appLogger, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Tracker.FetchTimeoutSeconds)*time.Second)
	defer cancel()
	snaps, err := marketService.Refresh(ctx, entity.CoinIDs(holdings), cur)
	if err != nil {
		logger.Warn("Market data incomplete, missing coins are valued at 0", "error", err)
	}

	agg := valuation.Compute(valuation.Inputs{
		Holdings:  holdings,
		Snapshots: snaps,
		Currency:  cur,
	})
	printAggregate(os.Stdout, agg)
}

func printAggregate(out *os.File, agg entity.PortfolioAggregate) {
	code := string(agg.Currency)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "COIN\tAMOUNT\tPRICE\tVALUE\tPROFIT\tPROFIT %\t24H\t")
	for _, a := range agg.Assets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			a.CoinID,
			valuation.CanonicalAmount(a.Amount),
			utils.FormatCurrency(a.CurrentPrice, code),
			utils.FormatCurrency(a.CurrentValue, code),
			utils.FormatSignedCurrency(a.Profit, code),
			utils.FormatPercent(a.ProfitPct),
			utils.FormatPercent(a.PriceChangePercentage24h),
		)
	}
	fmt.Fprintf(w, "TOTAL\t\t\t%s\t%s\t%s\t%s\t\n",
		utils.FormatCurrency(agg.TotalValue, code),
		utils.FormatSignedCurrency(agg.TotalProfit, code),
		utils.FormatPercent(agg.TotalProfitPct),
		utils.FormatPercent(agg.Delta24hPct),
	)
	w.Flush()
}
