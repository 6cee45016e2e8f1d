package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib/analysis"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib/cache/local"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib/cache/remote"
)

// config structure
type analysisServerConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Server         struct {
		HttpPort        int           `mapstructure:"http_port"`
		AllowedOrigins  []string      `mapstructure:"allowed_origins"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	}
	Analyzer      analysis.Type `mapstructure:"analyzer"`
	AnalysisCache cache.Type    `mapstructure:"analysis_cache"`
	Memory        local.Config
	Redis         remote.RedisConfig
	Elasticsearch remote.ElasticsearchConfig
}

var config analysisServerConfig

func initConfig() {
	err := lib.InitializeConfig("./config/analysis-server.yml", map[string]interface{}{
		"log_level":      "info",
		"analyzer":       analysis.Kagome,
		"analysis_cache": cache.Memory,
		"server": map[string]interface{}{
			"http_port":        8000,
			"allowed_origins":  []string{"*"},
			"shutdown_timeout": "10s",
		},
		"memory": map[string]interface{}{
			"ttl": "1h",
		},
		"redis": map[string]interface{}{
			"host":       "localhost",
			"port":       6379,
			"db":         0,
			"key_prefix": "jishokei:",
			"ttl":        "24h",
		},
		"elasticsearch": map[string]interface{}{
			"host":  "localhost",
			"port":  9200,
			"index": "jishokei",
		},
	}, &config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func newAnalysisCache(conf analysisServerConfig) (cache.Client, error) {
	switch conf.AnalysisCache {
	case cache.Memory:
		return local.New(conf.Memory), nil
	case cache.Redis:
		return remote.NewRedisClient(conf.Redis), nil
	case cache.Elasticsearch:
		return remote.NewElasticsearchClient(conf.Elasticsearch)
	case cache.None, "":
		return cache.NewNoop(), nil
	default:
		return nil, fmt.Errorf("invalid analysis cache type %q", conf.AnalysisCache)
	}
}

func main() {
	initConfig()

	analyzer, err := analysis.New(config.Analyzer)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	analysisCache, err := newAnalysisCache(config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	if !analysisCache.Ready() {
		log.Warn().Str("analysis_cache", string(config.AnalysisCache)).Msg("analysis cache is not reachable, every request will be analysed")
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Server.HttpPort),
		Handler: newRouter(config.Server.AllowedOrigins, controller{analyzer: analyzer, analysisCache: analysisCache}),
	}

	go lib.HandleInterrupt(func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server did not shut down cleanly")
		}
	})

	log.Info().
		Int("port", config.Server.HttpPort).
		Str("analyzer", string(config.Analyzer)).
		Str("analysis_cache", string(config.AnalysisCache)).
		Msg("ready to accept requests")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Send()
	}
}
