// Command briefengine runs the SERP-to-brief HTTP service: it loads
// configuration, wires the SERP/scrape/NLP/LLM pipeline components, and
// serves the spec §6 API surface over chi.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/brajen/contentbrief/internal/config"
	"github.com/brajen/contentbrief/pkg/brief"
	"github.com/brajen/contentbrief/pkg/cache"
	"github.com/brajen/contentbrief/pkg/causal"
	"github.com/brajen/contentbrief/pkg/lang"
	"github.com/brajen/contentbrief/pkg/lang/pl"
	"github.com/brajen/contentbrief/pkg/scrape"
	"github.com/brajen/contentbrief/pkg/serp"
	"github.com/brajen/contentbrief/pkg/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := buildZapLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger := zapr.NewLogger(zapLogger)

	tp, err := brief.InitTracing(os.Stdout)
	if err != nil {
		logger.Error(err, "failed to initialize tracing")
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	engine := buildEngine(cfg, logger)

	srv := NewServer(engine, logger)
	router := srv.Routes(cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("brief engine listening", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(err, "HTTP server failed")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(err, "graceful shutdown failed")
	}
}

func buildZapLogger(level, format string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(levelFor(level))
	return zapCfg.Build()
}

func levelFor(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func buildEngine(cfg *config.Config, logger logr.Logger) *brief.Engine {
	lang.SetFactory(func() lang.Asset { return pl.New() })
	asset := lang.Default()

	var primary, secondary serp.Provider
	serpAPI := serp.NewSerpAPIProvider(cfg.SERP.SerpAPIKey, cfg.SERP.Timeout)
	dataForSEO := serp.NewDataForSEOProvider(cfg.SERP.DataForSEOLogin, cfg.SERP.DataForSEOPassword, cfg.SERP.Timeout)
	if cfg.SERP.Provider == "dataforseo" {
		primary, secondary = dataForSEO, serpAPI
	} else {
		primary, secondary = serpAPI, dataForSEO
	}

	var causalPrimary, causalSecondary causal.LLM
	anthropicLLM := causal.NewAnthropicLLM(cfg.LLM.AnthropicAPIKey, cfg.LLM.Model)
	langchainLLM, err := causal.NewLangchainOpenAILLM(cfg.LLM.OpenAIAPIKey, cfg.LLM.Model)
	if cfg.LLM.Provider == "openai" && err == nil {
		causalPrimary, causalSecondary = langchainLLM, anthropicLLM
	} else {
		causalPrimary, causalSecondary = anthropicLLM, langchainLLM
	}

	serpClient := serp.NewClient(primary, secondary, serp.ModeAuto, serp.LLMPAAFallback(causalPrimary))

	scraper := scrape.NewFetcher(cfg.Scrape.Timeout)

	var briefStore store.BriefStore = store.NewInMemoryStore()
	if cfg.Docstore.GoogleApplicationCredentials != "" {
		briefStore = store.NewFirestoreStub(logger)
	}

	var briefCache cache.Cache = cache.NoOp{}
	if cfg.Cache.RedisAddr != "" {
		briefCache = cache.NewRedisCache(cfg.Cache.RedisAddr)
	}

	return brief.NewEngine(asset, serpClient, scraper, cfg.Scrape.Workers, causalPrimary, causalSecondary, briefStore, briefCache, cfg.EntitySEO.Enabled)
}
