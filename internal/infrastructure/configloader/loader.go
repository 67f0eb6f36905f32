package configloader

import (
	"fmt"
	"os"
	"time"

	"livetrack/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                   string   `yaml:"port"`
	GinMode                string   `yaml:"ginMode"`
	ReadTimeoutSeconds     int      `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds    int      `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds     int      `yaml:"idleTimeoutSeconds"`
	ShutdownTimeoutSeconds int      `yaml:"shutdownTimeoutSeconds"`
	AllowedOrigins         []string `yaml:"allowedOrigins"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	APIKey               string `yaml:"apiKey"`
	APIKeyHeader         string `yaml:"apiKeyHeader"`
	BaseURL              string `yaml:"baseURL"`
	ClientTimeoutSeconds int    `yaml:"clientTimeoutSeconds"`
	RequestsPerMinute    int    `yaml:"requestsPerMinute"`
	MaxIDsPerRequest     int    `yaml:"maxIdsPerRequest"`
}

// DEXScreenerConfig holds DEXScreener API specific configurations.
type DEXScreenerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MaxTokensPerRequest  int    `yaml:"maxTokensPerRequest"`
}

// TrackerConfig drives the live valuation loops.
type TrackerConfig struct {
	DefaultCurrency         string  `yaml:"defaultCurrency"`
	SnapshotIntervalSeconds int     `yaml:"snapshotIntervalSeconds"`
	TickIntervalMillis      int     `yaml:"tickIntervalMillis"`
	FetchTimeoutSeconds     int     `yaml:"fetchTimeoutSeconds"`
	MinTickFactor           float64 `yaml:"minTickFactor"`
	MaxTickFactor           float64 `yaml:"maxTickFactor"`
}

// CacheConfig holds TTLs of the in-memory caches.
type CacheConfig struct {
	SnapshotTTLMinutes   int `yaml:"snapshotTTLMinutes"`
	TopMarketsTTLSeconds int `yaml:"topMarketsTTLSeconds"`
	MemeTTLSeconds       int `yaml:"memeTTLSeconds"`
}

// MemeConfig holds the meme token feed settings.
type MemeConfig struct {
	MaxItems            int `yaml:"maxItems"`
	DefaultLimit        int `yaml:"defaultLimit"`
	MaxLimit            int `yaml:"maxLimit"`
	RateLimitPerMinute  int `yaml:"rateLimitPerMinute"`
	MaxConcurrentChunks int `yaml:"maxConcurrentChunks"`
}

// HoldingsConfig holds the holdings store settings.
type HoldingsConfig struct {
	SeedFile    string `yaml:"seedFile"`
	MaxHoldings int    `yaml:"maxHoldings"` // 0 = unlimited
}

// LocalStateConfig points to the persisted label, goal and ledger.
type LocalStateConfig struct {
	FilePath          string  `yaml:"filePath"`
	DefaultProfitGoal float64 `yaml:"defaultProfitGoal"`
}

// CatalogConfig holds the coin/chain catalog settings.
type CatalogConfig struct {
	OverrideFile string `yaml:"overrideFile"`
}

// SwaggerConfig controls the swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	SpecPath string `yaml:"specPath"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	CoinGecko   CoinGeckoConfig   `yaml:"coingecko"`
	DEXScreener DEXScreenerConfig `yaml:"dexScreener"`
	Tracker     TrackerConfig     `yaml:"tracker"`
	Cache       CacheConfig       `yaml:"cache"`
	Meme        MemeConfig        `yaml:"meme"`
	Holdings    HoldingsConfig    `yaml:"holdings"`
	LocalState  LocalStateConfig  `yaml:"localState"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Swagger     SwaggerConfig     `yaml:"swagger"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	// defaults never fail on an empty config
	_ = applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) error {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.GinMode == "" {
		cfg.Server.GinMode = "release"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 10
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		cfg.Server.ShutdownTimeoutSeconds = 5
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	// CoinGecko
	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
		logrus.Infof("CoinGecko.BaseURL not set, defaulting to %s", cfg.CoinGecko.BaseURL)
	}
	if cfg.CoinGecko.ClientTimeoutSeconds <= 0 {
		cfg.CoinGecko.ClientTimeoutSeconds = 10
	}
	if cfg.CoinGecko.RequestsPerMinute <= 0 {
		cfg.CoinGecko.RequestsPerMinute = 30 // public API limit
		logrus.Infof("CoinGecko.RequestsPerMinute not set, defaulting to %d", cfg.CoinGecko.RequestsPerMinute)
	}
	if cfg.CoinGecko.MaxIDsPerRequest <= 0 {
		cfg.CoinGecko.MaxIDsPerRequest = 100
	}
	if cfg.CoinGecko.APIKey == "" {
		cfg.CoinGecko.APIKey = os.Getenv("COINGECKO_API_KEY")
	}

	// DEXScreener
	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DEXScreener.BaseURL not set, defaulting to %s", cfg.DEXScreener.BaseURL)
	}
	if cfg.DEXScreener.RequestTimeoutMillis <= 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000
		logrus.Infof("DEXScreener.RequestTimeoutMillis not set, defaulting to %d ms", cfg.DEXScreener.RequestTimeoutMillis)
	}
	if cfg.DEXScreener.MaxTokensPerRequest <= 0 {
		cfg.DEXScreener.MaxTokensPerRequest = 30 // DEXScreener limit
	}

	// Tracker
	if cfg.Tracker.DefaultCurrency == "" {
		cfg.Tracker.DefaultCurrency = string(entity.USD)
	}
	cur, err := entity.ParseCurrency(cfg.Tracker.DefaultCurrency)
	if err != nil {
		logrus.Errorf("Tracker.DefaultCurrency %q is not supported", cfg.Tracker.DefaultCurrency)
		return err
	}
	cfg.Tracker.DefaultCurrency = string(cur)
	if cfg.Tracker.SnapshotIntervalSeconds <= 0 {
		cfg.Tracker.SnapshotIntervalSeconds = 45
		logrus.Infof("Tracker.SnapshotIntervalSeconds not set, defaulting to %d", cfg.Tracker.SnapshotIntervalSeconds)
	}
	if cfg.Tracker.TickIntervalMillis <= 0 {
		cfg.Tracker.TickIntervalMillis = 1000
	}
	if cfg.Tracker.FetchTimeoutSeconds <= 0 {
		cfg.Tracker.FetchTimeoutSeconds = 20
	}
	if cfg.Tracker.MinTickFactor == 0 && cfg.Tracker.MaxTickFactor == 0 {
		cfg.Tracker.MinTickFactor = 0.98
		cfg.Tracker.MaxTickFactor = 1.02
	}
	if cfg.Tracker.MinTickFactor <= 0 || cfg.Tracker.MinTickFactor > 1 || cfg.Tracker.MaxTickFactor < 1 {
		logrus.Warnf("Tick envelope [%v, %v] is invalid, defaulting to [0.98, 1.02]", cfg.Tracker.MinTickFactor, cfg.Tracker.MaxTickFactor)
		cfg.Tracker.MinTickFactor = 0.98
		cfg.Tracker.MaxTickFactor = 1.02
	}

	// Caches
	if cfg.Cache.SnapshotTTLMinutes <= 0 {
		cfg.Cache.SnapshotTTLMinutes = 5
	}
	if cfg.Cache.TopMarketsTTLSeconds <= 0 {
		cfg.Cache.TopMarketsTTLSeconds = 60
	}
	if cfg.Cache.MemeTTLSeconds <= 0 {
		cfg.Cache.MemeTTLSeconds = 30
	}

	// Meme feed
	if cfg.Meme.MaxItems <= 0 {
		cfg.Meme.MaxItems = 80
	}
	if cfg.Meme.MaxLimit <= 0 {
		cfg.Meme.MaxLimit = 100
	}
	if cfg.Meme.DefaultLimit <= 0 {
		cfg.Meme.DefaultLimit = 50
	}
	if cfg.Meme.DefaultLimit > cfg.Meme.MaxLimit {
		cfg.Meme.DefaultLimit = cfg.Meme.MaxLimit
	}
	if cfg.Meme.RateLimitPerMinute <= 0 {
		cfg.Meme.RateLimitPerMinute = 30
	}
	if cfg.Meme.MaxConcurrentChunks <= 0 {
		cfg.Meme.MaxConcurrentChunks = 4
	}

	if cfg.Holdings.MaxHoldings < 0 {
		cfg.Holdings.MaxHoldings = 0
	}

	if cfg.LocalState.FilePath == "" {
		cfg.LocalState.FilePath = "data/state.yml"
		logrus.Infof("LocalState.FilePath not set, defaulting to %s", cfg.LocalState.FilePath)
	}
	if cfg.LocalState.DefaultProfitGoal <= 0 {
		cfg.LocalState.DefaultProfitGoal = 1000
	}

	if cfg.Swagger.SpecPath == "" {
		cfg.Swagger.SpecPath = "./docs/swagger.yaml"
	}

	return nil
}

// ServerTimeouts returns the read, write and idle timeouts of the HTTP server.
func (c *Config) ServerTimeouts() (read, write, idle time.Duration) {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second,
		time.Duration(c.Server.WriteTimeoutSeconds) * time.Second,
		time.Duration(c.Server.IdleTimeoutSeconds) * time.Second
}

// SnapshotInterval returns the market snapshot polling interval.
func (c *Config) SnapshotInterval() time.Duration {
	return time.Duration(c.Tracker.SnapshotIntervalSeconds) * time.Second
}

// TickInterval returns the tick simulator interval.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Tracker.TickIntervalMillis) * time.Millisecond
}

// DefaultCurrency returns the parsed default currency.
func (c *Config) DefaultCurrency() entity.Currency {
	cur, err := entity.ParseCurrency(c.Tracker.DefaultCurrency)
	if err != nil {
		return entity.USD
	}
	return cur
}
