package ml

import (
	"fmt"
	"math"

	"github.com/drakos74/opistocks/internal/text"
	"gonum.org/v1/gonum/floats"
)

const minAlpha = 1e-10

// MultinomialNB is a multinomial naive bayes classifier with additive smoothing.
type MultinomialNB struct {
	Classes       []int       `json:"classes"`
	LogPrior      []float64   `json:"log_prior"`
	LogLikelihood [][]float64 `json:"log_likelihood"`
	cfg           Config
}

// NewMultinomialNB creates a new naive bayes classifier.
func NewMultinomialNB(cfg Config) *MultinomialNB {
	return &MultinomialNB{cfg: cfg}
}

// Fit counts the feature mass per class.
func (nb *MultinomialNB) Fit(x []text.Vector, y []int, dim int) error {
	cc, err := classes(x, y)
	if err != nil {
		return err
	}
	position := make(map[int]int, len(cc))
	for i, c := range cc {
		position[c] = i
	}

	counts := make([][]float64, len(cc))
	for i := range counts {
		counts[i] = make([]float64, dim)
	}
	docs := make([]float64, len(cc))
	for i, row := range x {
		for _, v := range row.Value {
			if v < 0 {
				return fmt.Errorf("row %d: %w", i, ErrNegativeFeature)
			}
		}
		c := position[y[i]]
		docs[c]++
		row.AddTo(counts[c], 1)
	}

	alpha := math.Max(nb.cfg.Alpha, minAlpha)
	nb.Classes = cc
	nb.LogPrior = make([]float64, len(cc))
	nb.LogLikelihood = make([][]float64, len(cc))
	for c := range cc {
		nb.LogPrior[c] = math.Log(docs[c] / float64(len(x)))
		total := floats.Sum(counts[c]) + alpha*float64(dim)
		ll := make([]float64, dim)
		for f, n := range counts[c] {
			ll[f] = math.Log((n + alpha) / total)
		}
		nb.LogLikelihood[c] = ll
	}
	return nil
}

// Predict returns the class with the highest joint log likelihood for each row.
func (nb *MultinomialNB) Predict(x []text.Vector) ([]int, error) {
	if len(nb.LogPrior) == 0 {
		return nil, ErrNotFitted
	}
	predictions := make([]int, len(x))
	scores := make([]float64, len(nb.Classes))
	for i, row := range x {
		for c := range nb.Classes {
			scores[c] = nb.LogPrior[c] + row.Dot(nb.LogLikelihood[c])
		}
		predictions[i] = nb.Classes[floats.MaxIdx(scores)]
	}
	return predictions, nil
}
