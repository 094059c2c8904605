package sweep

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/drakos74/opistocks/internal/dataset"
	"github.com/drakos74/opistocks/internal/math/ml"
	"github.com/drakos74/opistocks/internal/storage"
)

// FailurePolicy decides what happens when a classifier fails on a cell.
type FailurePolicy string

const (
	// Abort stops the whole sweep on the first failure.
	Abort FailurePolicy = "abort"
	// Record stores the error in the cell and carries on.
	Record FailurePolicy = "record"
)

// CorpusConfig defines how the normalized datasets are assembled.
type CorpusConfig struct {
	Seed uint64 `json:"seed"`
	// Balance draws the same number of samples per class for the combined corpus.
	Balance bool `json:"balance"`
	// PerClass is the balanced class size, 0 means the smallest class count.
	PerClass int `json:"per_class"`
	// Sample caps the size of an unbalanced combined corpus, 0 means no cap.
	Sample         int    `json:"sample"`
	Combined       string `json:"combined"`
	ShuffleSources bool   `json:"shuffle_sources"`
}

// Config is the model selection configuration.
type Config struct {
	DataDir   string           `json:"data_dir"`
	Sources   []dataset.Source `json:"sources"`
	Corpus    CorpusConfig     `json:"corpus"`
	TestRatio float64          `json:"test_ratio"`
	Workers   int              `json:"workers"`
	Kinds     []ml.Kind        `json:"kinds"`
	// SkipLast lists the kinds not evaluated on the combined corpus.
	SkipLast []ml.Kind     `json:"skip_last"`
	Failure  FailurePolicy `json:"failure"`
	Model    ml.Config     `json:"model"`
	Output   string        `json:"output"`
}

// DefaultConfig returns the configuration of the reference model selection run.
func DefaultConfig() Config {
	return Config{
		DataDir: "data",
		Corpus: CorpusConfig{
			Seed:           17,
			Balance:        true,
			Combined:       "combined",
			ShuffleSources: true,
		},
		TestRatio: 0.25,
		Workers:   runtime.NumCPU(),
		Kinds:     ml.Kinds,
		SkipLast:  []ml.Kind{ml.KernelSVM},
		Failure:   Abort,
		Model:     ml.DefaultConfig(),
		Output:    filepath.Join(storage.DefaultDir, storage.ResultsDir),
	}
}

// Validate checks the configuration before any data is loaded.
func (c Config) Validate() error {
	if c.TestRatio < 0 || c.TestRatio >= 1 {
		return fmt.Errorf("test ratio must be in [0,1): %v", c.TestRatio)
	}
	if len(c.Kinds) == 0 {
		return fmt.Errorf("no classifier kinds configured")
	}
	for _, k := range c.Kinds {
		if _, err := ml.New(k, c.Model); err != nil {
			return err
		}
	}
	switch c.Failure {
	case Abort, Record:
	default:
		return fmt.Errorf("unknown failure policy '%s'", c.Failure)
	}
	if c.Corpus.PerClass < 0 || c.Corpus.Sample < 0 {
		return fmt.Errorf("negative corpus size")
	}
	if c.Corpus.Balance && c.Corpus.Sample > 0 {
		return fmt.Errorf("sample cap and balancing are exclusive")
	}
	return nil
}

// DataSources returns the configured sources,
// or the default datasets found in the data directory.
func (c Config) DataSources() []dataset.Source {
	if len(c.Sources) > 0 {
		return c.Sources
	}
	return dataset.Defaults(c.DataDir)
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

func (c Config) kinds(last bool) []ml.Kind {
	if !last {
		return c.Kinds
	}
	kinds := make([]ml.Kind, 0, len(c.Kinds))
	for _, k := range c.Kinds {
		skip := false
		for _, s := range c.SkipLast {
			if s == k {
				skip = true
			}
		}
		if !skip {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
