// Package sweep evaluates every classifier kind on every (corpus, feature config) pair.
package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/drakos74/opistocks/internal/corpus"
	"github.com/drakos74/opistocks/internal/math/ml"
	"github.com/drakos74/opistocks/internal/metrics"
	"github.com/drakos74/opistocks/internal/model"
	"github.com/drakos74/opistocks/internal/text"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type job struct {
	corpus int
	config int
}

type outcome struct {
	job
	cells []*Cell
}

// Runner runs the model selection sweep.
type Runner struct {
	cfg     Config
	catalog []text.FeatureConfig
}

// NewRunner creates a runner for the given feature configs.
func NewRunner(cfg Config, catalog []text.FeatureConfig) *Runner {
	return &Runner{
		cfg:     cfg,
		catalog: catalog,
	}
}

// Run evaluates all cells on a bounded pool of workers.
// The last corpus is treated as the combined one.
// With the Abort policy the first failure cancels the sweep and is returned.
func (r *Runner) Run(ctx context.Context, corpora []model.Corpus) (*Results, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	results := NewResults(r.cfg, corpora, r.catalog)

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan job)
	outcomes := make(chan outcome)

	g.Go(func() error {
		defer close(jobs)
		for c := range corpora {
			for f := range r.catalog {
				select {
				case jobs <- job{corpus: c, config: f}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return nil
	})

	wg := new(sync.WaitGroup)
	for w := 0; w < r.cfg.workers(); w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				cells, err := r.evaluate(corpora, j)
				if err != nil {
					return err
				}
				select {
				case outcomes <- outcome{job: j, cells: cells}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for o := range outcomes {
		for _, cell := range o.cells {
			results.add(cell, o.corpus)
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results.Finished = time.Now()
	ok, failed := results.Count()
	log.Info().
		Str("run", results.RunID).
		Int("ok", ok).
		Int("failed", failed).
		Float64("duration", results.Finished.Sub(results.Started).Seconds()).
		Msg("sweep completed")
	return results, nil
}

// evaluate vectorizes the corpus once for the feature config and runs every kind on it.
func (r *Runner) evaluate(corpora []model.Corpus, j job) ([]*Cell, error) {
	c := corpora[j.corpus]
	kinds := r.cfg.kinds(j.corpus == len(corpora)-1)
	fc := r.catalog[j.config]

	cells := make([]*Cell, len(kinds))
	for i, kind := range kinds {
		cells[i] = &Cell{
			Corpus: c.Name,
			Config: j.config,
			Kind:   kind,
		}
	}

	train, test, err := corpus.Split(c.Len(), r.cfg.TestRatio)
	if err != nil {
		return nil, err
	}

	vectorizer := text.NewVectorizer(fc)
	x, err := vectorizer.FitTransform(c.Texts())
	if err != nil {
		for _, cell := range cells {
			if err := r.fail(cell, fc, err); err != nil {
				return nil, err
			}
		}
		return cells, nil
	}
	y := c.Labels()

	for _, cell := range cells {
		cell.Train = train
		cell.Test = test
		start := time.Now()
		report, err := r.classify(cell.Kind, x, y, train, vectorizer.Dim())
		cell.Seconds = time.Since(start).Seconds()
		if err != nil {
			if err := r.fail(cell, fc, err); err != nil {
				return nil, err
			}
			continue
		}
		cell.Report = &report
		metrics.Observer.Cell(string(cell.Kind), "ok")
		log.Info().
			Str("corpus", cell.Corpus).
			Str("features", fc.String()).
			Str("kind", string(cell.Kind)).
			Int("vocabulary", vectorizer.Dim()).
			Float64("accuracy", report.Accuracy).
			Float64("f1", report.WeightedAvg.F1).
			Float64("seconds", cell.Seconds).
			Msg("evaluated")
	}
	return cells, nil
}

// classify trains on the prefix and reports on the held-out suffix.
func (r *Runner) classify(kind ml.Kind, x []text.Vector, y []int, train int, dim int) (ml.Report, error) {
	clf, err := ml.New(kind, r.cfg.Model)
	if err != nil {
		return ml.Report{}, err
	}
	start := time.Now()
	if err := clf.Fit(x[:train], y[:train], dim); err != nil {
		return ml.Report{}, fmt.Errorf("could not fit: %w", err)
	}
	metrics.Observer.Fit(string(kind), time.Since(start))
	predictions, err := clf.Predict(x[train:])
	if err != nil {
		return ml.Report{}, fmt.Errorf("could not predict: %w", err)
	}
	return ml.NewReport(model.ClassNames(), y[train:], predictions), nil
}

func (r *Runner) fail(cell *Cell, fc text.FeatureConfig, err error) error {
	metrics.Observer.Cell(string(cell.Kind), "failed")
	err = fmt.Errorf("corpus '%s' features %d (%s) kind '%s': %w", cell.Corpus, cell.Config, fc, cell.Kind, err)
	if r.cfg.Failure == Abort {
		return err
	}
	cell.Error = err.Error()
	log.Warn().Err(err).Msg("recorded failed cell")
	return nil
}
