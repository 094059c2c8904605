package main

import (
	"github.com/alexflint/go-arg"
	"github.com/drakos74/opistocks/infra/config"
	"github.com/drakos74/opistocks/internal/math/ml"
	"github.com/drakos74/opistocks/internal/sentiment"
	"github.com/drakos74/opistocks/internal/storage"
	"github.com/drakos74/opistocks/internal/storage/file/json"
	"github.com/drakos74/opistocks/internal/sweep"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

type args struct {
	Config  string `arg:"--config" help:"model selection config file, defaults to infra/config/modelselection.json"`
	Data    string `arg:"--data" help:"directory of the raw datasets"`
	Corpus  string `arg:"--corpus" help:"corpus to train on, defaults to the combined one"`
	Feature int    `arg:"--feature" help:"index of the feature config in the catalog"`
	Kind    string `arg:"--kind" help:"classifier kind"`
	Dir     string `arg:"--dir" help:"storage directory of the model"`
	Label   string `arg:"--label" help:"name of the model artifact"`
}

func main() {
	// tf-idf unigrams without stop word removal, lowercased
	a := args{
		Feature: 12,
		Kind:    string(ml.LinearSVM),
		Dir:     storage.DefaultDir,
		Label:   "sentiment",
	}
	arg.MustParse(&a)

	cfg := sweep.DefaultConfig()
	if a.Config == "" {
		config.MustLoad("modelselection", &cfg)
	} else if _, err := config.LoadFile(a.Config, &cfg); err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	if a.Data != "" {
		cfg.DataDir = a.Data
	}
	if a.Corpus == "" {
		a.Corpus = cfg.Corpus.Combined
	}

	corpora, err := sweep.Prepare(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not prepare corpora")
	}
	var found bool
	for _, c := range corpora {
		if c.Name != a.Corpus {
			continue
		}
		found = true
		log.Info().
			Str("corpus", c.Name).
			Int("samples", c.Len()).
			Int("feature", a.Feature).
			Str("kind", a.Kind).
			Msg("training model")
		m, err := sentiment.Train(c, a.Feature, ml.Kind(a.Kind), cfg.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("could not train model")
		}
		key := storage.Key{Bucket: storage.ModelsDir, Label: a.Label}
		if err := m.Save(json.NewStorage(a.Dir), key); err != nil {
			log.Fatal().Err(err).Msg("could not save model")
		}
		log.Info().Str("dir", a.Dir).Str("key", key.Path()).Msg("saved model")
	}
	if !found {
		log.Fatal().Str("corpus", a.Corpus).Msg("unknown corpus")
	}
}
