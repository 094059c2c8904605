package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	"github.com/drakos74/opistocks/infra/config"
	"github.com/drakos74/opistocks/internal/metrics"
	"github.com/drakos74/opistocks/internal/sweep"
	"github.com/drakos74/opistocks/internal/text"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const configKey = "modelselection"

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

type args struct {
	Config  string `arg:"--config" help:"model selection config file, defaults to infra/config/modelselection.json"`
	Data    string `arg:"--data" help:"directory of the raw datasets"`
	Output  string `arg:"--output" help:"directory of the results file"`
	Seed    uint64 `arg:"--seed" help:"seed of the corpus shuffling and sampling"`
	Workers int    `arg:"--workers" help:"number of concurrent evaluations"`
	Failure string `arg:"--failure" help:"abort or record classifier failures"`
	Metrics int    `arg:"--metrics" help:"port to expose the sweep metrics on, 0 disables"`
	Debug   bool   `arg:"--debug" help:"debug logging"`
}

func main() {
	var a args
	arg.MustParse(&a)
	if a.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := sweep.DefaultConfig()
	if a.Config == "" {
		config.MustLoad(configKey, &cfg)
	} else if _, err := config.LoadFile(a.Config, &cfg); err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	override(&cfg, a)

	if a.Metrics > 0 {
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf(":%d", a.Metrics), metrics.Handler()); err != nil {
				log.Error().Err(err).Msg("could not expose metrics")
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	corpora, err := sweep.Prepare(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not prepare corpora")
	}

	results, err := sweep.NewRunner(cfg, text.Catalog()).Run(ctx, corpora)
	if err != nil {
		log.Fatal().Err(err).Msg("model selection failed")
	}

	name, err := results.Save(cfg.Output)
	if err != nil {
		log.Fatal().Err(err).Msg("could not save results")
	}

	summarize(results)
	ok, failed := results.Count()
	log.Info().
		Str("run", results.RunID).
		Str("file", name).
		Str("dir", cfg.Output).
		Int("ok", ok).
		Int("failed", failed).
		Float64("duration", results.Finished.Sub(results.Started).Seconds()).
		Msg("model selection complete")
}

func override(cfg *sweep.Config, a args) {
	if a.Data != "" {
		cfg.DataDir = a.Data
	}
	if a.Output != "" {
		cfg.Output = a.Output
	}
	if a.Seed != 0 {
		cfg.Corpus.Seed = a.Seed
		cfg.Model.Seed = a.Seed
	}
	if a.Workers > 0 {
		cfg.Workers = a.Workers
	}
	if a.Failure != "" {
		cfg.Failure = sweep.FailurePolicy(a.Failure)
	}
}

// summarize logs the most accurate feature config per corpus and classifier.
func summarize(results *sweep.Results) {
	for kind := range results.Reports {
		for c, corpus := range results.Corpora {
			best := results.Best(kind, c)
			if best == nil {
				continue
			}
			log.Info().
				Str("kind", string(kind)).
				Str("corpus", corpus.Name).
				Int("config", best.Config).
				Str("features", results.Catalog[best.Config].String()).
				Float64("accuracy", best.Report.Accuracy).
				Msg("best config")
			log.Debug().Str("kind", string(kind)).Str("corpus", corpus.Name).Msg(best.Report.Summary())
		}
	}
}
