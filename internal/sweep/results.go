package sweep

import (
	"fmt"
	"time"

	"github.com/drakos74/opistocks/internal/math/ml"
	"github.com/drakos74/opistocks/internal/model"
	"github.com/drakos74/opistocks/internal/storage/file/json"
	"github.com/drakos74/opistocks/internal/text"
	"github.com/google/uuid"
)

// Cell is the evaluation of one classifier on one (corpus, feature config) pair.
type Cell struct {
	Corpus  string     `json:"corpus"`
	Config  int        `json:"config"`
	Kind    ml.Kind    `json:"kind"`
	Train   int        `json:"train"`
	Test    int        `json:"test"`
	Seconds float64    `json:"seconds"`
	Report  *ml.Report `json:"report,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// OK returns true if the cell holds a report.
func (c *Cell) OK() bool {
	return c != nil && c.Report != nil
}

// CorpusSummary describes a corpus of the sweep.
type CorpusSummary struct {
	Name   string         `json:"name"`
	Size   int            `json:"size"`
	Counts map[string]int `json:"counts"`
}

// Results holds every cell of a sweep, indexed by kind, then corpus, then feature config.
// Cells that were not evaluated are nil.
type Results struct {
	RunID     string                `json:"run_id"`
	Started   time.Time             `json:"started"`
	Finished  time.Time             `json:"finished"`
	Seed      uint64                `json:"seed"`
	TestRatio float64               `json:"test_ratio"`
	Corpora   []CorpusSummary       `json:"corpora"`
	Catalog   []text.FeatureConfig  `json:"catalog"`
	Reports   map[ml.Kind][][]*Cell `json:"reports"`
}

// NewResults creates an empty result set for the given sweep dimensions.
func NewResults(cfg Config, corpora []model.Corpus, catalog []text.FeatureConfig) *Results {
	results := &Results{
		RunID:     uuid.New().String(),
		Started:   time.Now(),
		Seed:      cfg.Corpus.Seed,
		TestRatio: cfg.TestRatio,
		Corpora:   make([]CorpusSummary, len(corpora)),
		Catalog:   catalog,
		Reports:   make(map[ml.Kind][][]*Cell, len(cfg.Kinds)),
	}
	for i, c := range corpora {
		counts := make(map[string]int, len(model.Sentiments))
		for s, n := range c.Counts() {
			counts[s.String()] = n
		}
		results.Corpora[i] = CorpusSummary{
			Name:   c.Name,
			Size:   c.Len(),
			Counts: counts,
		}
	}
	for _, kind := range cfg.Kinds {
		grid := make([][]*Cell, len(corpora))
		for i := range grid {
			grid[i] = make([]*Cell, len(catalog))
		}
		results.Reports[kind] = grid
	}
	return results
}

func (r *Results) add(cell *Cell, corpus int) {
	r.Reports[cell.Kind][corpus][cell.Config] = cell
}

// Get returns the cell for the given position, or nil if it was not evaluated.
func (r *Results) Get(kind ml.Kind, corpus, config int) *Cell {
	grid, ok := r.Reports[kind]
	if !ok || corpus < 0 || corpus >= len(grid) || config < 0 || config >= len(grid[corpus]) {
		return nil
	}
	return grid[corpus][config]
}

// Count returns the number of evaluated and failed cells.
func (r *Results) Count() (ok int, failed int) {
	for _, grid := range r.Reports {
		for _, row := range grid {
			for _, cell := range row {
				switch {
				case cell == nil:
				case cell.OK():
					ok++
				default:
					failed++
				}
			}
		}
	}
	return ok, failed
}

// Save writes the results as a single json artifact into the directory.
func (r *Results) Save(dir string) (string, error) {
	name := fmt.Sprintf("%s.json", r.RunID)
	if err := json.Save(dir, name, r); err != nil {
		return "", fmt.Errorf("could not save results of run '%s': %w", r.RunID, err)
	}
	return name, nil
}

// Best returns the most accurate evaluated cell of the classifier on the corpus.
// Ties keep the lower feature config.
func (r *Results) Best(kind ml.Kind, corpus int) *Cell {
	var best *Cell
	for f := range r.Catalog {
		cell := r.Get(kind, corpus, f)
		if !cell.OK() {
			continue
		}
		if best == nil || cell.Report.Accuracy > best.Report.Accuracy {
			best = cell
		}
	}
	return best
}
