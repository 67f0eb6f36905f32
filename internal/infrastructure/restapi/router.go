package restapi

import (
	"net/http"
	"net/http/pprof"

	"livetrack/internal/infrastructure/configloader"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by SetupRouter.
type Handlers struct {
	Portfolio *PortfolioHandler
	Market    *MarketHandler
	State     *StateHandler
}

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(cfg *configloader.Config, zapLogger *zap.Logger, h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	memeLimiter := NewIPRateLimiter(cfg.Meme.RateLimitPerMinute)

	// Группа для API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/portfolio", h.Portfolio.GetPortfolioHandler)
		v1.GET("/portfolio/stream", h.Portfolio.StreamPortfolioHandler)

		v1.GET("/holdings", h.Portfolio.ListHoldingsHandler)
		v1.POST("/holdings", h.Portfolio.AddHoldingHandler)
		v1.DELETE("/holdings/:id", h.Portfolio.DeleteHoldingHandler)
		v1.PUT("/holdings/:id/amount-input", h.Portfolio.SetAmountInputHandler)
		v1.POST("/holdings/:id/amount", h.Portfolio.CommitAmountHandler)

		v1.GET("/currency", h.Portfolio.GetCurrencyHandler)
		v1.PUT("/currency", h.Portfolio.SetCurrencyHandler)

		v1.GET("/markets/top", h.Market.TopMarketsHandler)
		v1.GET("/charts/:coinId", h.Market.ChartSymbolHandler)
		v1.GET("/coins", h.Market.CoinsHandler)
		v1.GET("/chains", h.Market.ChainsHandler)
		v1.GET("/meme", RateLimitMiddleware(memeLimiter, "meme"), h.Market.MemeFeedHandler)

		v1.GET("/state/label", h.State.GetLabelHandler)
		v1.PUT("/state/label", h.State.SetLabelHandler)
		v1.GET("/state/goal", h.State.GetGoalHandler)
		v1.PUT("/state/goal", h.State.SetGoalHandler)
		v1.GET("/state/ledger", h.State.ListLedgerHandler)
		v1.POST("/state/ledger", h.State.AddLedgerEntryHandler)
		v1.DELETE("/state/ledger/:id", h.State.DeleteLedgerEntryHandler)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		pprofRouter.GET("/block", gin.WrapH(pprof.Handler("block")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		pprofRouter.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
		pprofRouter.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
	}

	// Swagger UI читает спецификацию из статического файла
	if cfg.Swagger.Enabled {
		router.StaticFile("/docs/swagger.yaml", cfg.Swagger.SpecPath)
		swaggerURL := ginSwagger.URL("/docs/swagger.yaml")
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Client-Info", "Apikey"}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}
