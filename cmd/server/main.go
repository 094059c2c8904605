package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/drakos74/opistocks/infra/config"
	"github.com/drakos74/opistocks/internal/api"
	"github.com/drakos74/opistocks/internal/sentiment"
	"github.com/drakos74/opistocks/internal/server"
	"github.com/drakos74/opistocks/internal/stocks"
	"github.com/drakos74/opistocks/internal/storage"
	"github.com/drakos74/opistocks/internal/storage/bolt"
	"github.com/drakos74/opistocks/internal/storage/file/json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Config is the configuration of the api server.
type Config struct {
	Name    string   `json:"name"`
	Port    int      `json:"port"`
	Debug   bool     `json:"debug"`
	Origins []string `json:"origins"`
	// Dir is the storage directory of the models and the cache.
	Dir   string `json:"dir"`
	Model string `json:"model"`
	// CacheSize is the number of classified texts kept in memory.
	CacheSize int    `json:"cache_size"`
	Tweets    string `json:"tweets"`
	Stocks    struct {
		// Provider is either yahoo or local.
		Provider string `json:"provider"`
		URL      string `json:"url"`
		Dir      string `json:"dir"`
		Timeout  string `json:"timeout"`
		TTL      string `json:"ttl"`
	} `json:"stocks"`
}

func defaults() Config {
	cfg := Config{
		Name:      "opistocks",
		Port:      8080,
		Origins:   []string{"*"},
		Dir:       storage.DefaultDir,
		Model:     "sentiment",
		CacheSize: 1000,
		Tweets:    filepath.Join("data", "tweets.json"),
	}
	cfg.Stocks.Provider = "yahoo"
	cfg.Stocks.URL = stocks.DefaultYahooURL
	cfg.Stocks.Timeout = "10s"
	cfg.Stocks.TTL = "12h"
	return cfg
}

type args struct {
	Config string `arg:"--config" help:"server config file, defaults to infra/config/server.json"`
	Port   int    `arg:"--port" help:"port to listen on"`
	Debug  bool   `arg:"--debug" help:"debug logging"`
}

func duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("value", value).Dur("default", fallback).Msg("invalid duration")
		return fallback
	}
	return d
}

func main() {
	var a args
	arg.MustParse(&a)

	cfg := defaults()
	if a.Config == "" {
		config.MustLoad("server", &cfg)
	} else if _, err := config.LoadFile(a.Config, &cfg); err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	if a.Port > 0 {
		cfg.Port = a.Port
	}
	if a.Debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var upstream stocks.Provider
	switch cfg.Stocks.Provider {
	case "local":
		upstream = stocks.NewLocalProvider(cfg.Stocks.Dir)
	case "yahoo":
		upstream = stocks.NewYahooProvider(cfg.Stocks.URL, duration(cfg.Stocks.Timeout, 10*time.Second))
	default:
		log.Fatal().Str("provider", cfg.Stocks.Provider).Msg("unknown stocks provider")
	}
	var cache storage.Persistence = storage.NewVoidStorage()
	if err := os.MkdirAll(cfg.Dir, os.ModePerm); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Dir).Msg("could not create storage dir")
	}
	db, err := bolt.NewStorage(filepath.Join(cfg.Dir, storage.CacheFile))
	if err != nil {
		log.Warn().Err(err).Msg("running without history cache")
	} else {
		defer db.Close()
		cache = db
	}
	provider := stocks.NewCachedProvider(upstream, cache, duration(cfg.Stocks.TTL, 12*time.Hour))

	models := json.NewStorage(cfg.Dir)
	classifier, err := sentiment.NewClassifier(func() (*sentiment.Model, error) {
		return sentiment.Load(models, storage.Key{Bucket: storage.ModelsDir, Label: cfg.Model})
	}, cfg.CacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create classifier")
	}

	var tweets sentiment.TweetSource
	tweets, err = sentiment.NewFileSource(cfg.Tweets)
	if err != nil {
		log.Warn().Err(err).Str("tweets", cfg.Tweets).Msg("no tweets available")
		tweets = sentiment.NewMemorySource()
	}

	srv := server.NewServer(cfg.Name, cfg.Port).
		Origins(cfg.Origins...).
		Add(api.New(provider, classifier, sentiment.NewTimeline(tweets, classifier)).Routes()...)
	if cfg.Debug {
		srv.Debug()
	}
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
