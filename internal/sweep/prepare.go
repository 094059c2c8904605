package sweep

import (
	"fmt"

	"github.com/drakos74/opistocks/internal/corpus"
	"github.com/drakos74/opistocks/internal/dataset"
	"github.com/drakos74/opistocks/internal/model"
	"github.com/rs/zerolog/log"
)

// Prepare loads the configured datasets and assembles the corpora of the sweep.
// Any load error aborts, no partial corpus is returned.
func Prepare(cfg Config) ([]model.Corpus, error) {
	sources, err := dataset.LoadAll(cfg.DataSources())
	if err != nil {
		return nil, err
	}
	return Assemble(sources, cfg.Corpus)
}

// Assemble returns the individual corpora followed by the combined one.
func Assemble(sources []model.Corpus, cfg CorpusConfig) ([]model.Corpus, error) {
	corpora := make([]model.Corpus, 0, len(sources)+1)
	for _, c := range sources {
		if cfg.ShuffleSources {
			c = corpus.Shuffle(c, cfg.Seed)
		}
		corpora = append(corpora, c)
	}

	name := cfg.Combined
	if name == "" {
		name = "combined"
	}
	combined := corpus.Concat(name, sources...)
	if cfg.Balance {
		k := cfg.PerClass
		if k == 0 {
			k = corpus.MinClassCount(combined)
			if k == 0 {
				return nil, fmt.Errorf("'%s' has an empty class: %w", name, corpus.ErrBalanceUnderflow)
			}
		}
		balanced, err := corpus.Balance(combined, k, cfg.Seed)
		if err != nil {
			return nil, err
		}
		combined = balanced
	} else {
		combined = corpus.Sample(combined, cfg.Sample, cfg.Seed)
	}

	counts := combined.Counts()
	log.Info().
		Str("corpus", combined.Name).
		Int("size", combined.Len()).
		Int(model.Negative.String(), counts[model.Negative]).
		Int(model.Neutral.String(), counts[model.Neutral]).
		Int(model.Positive.String(), counts[model.Positive]).
		Bool("balanced", cfg.Balance).
		Msg("assembled corpus")

	return append(corpora, combined), nil
}
