package ml

import (
	"fmt"
	"math"

	"github.com/drakos74/opistocks/internal/text"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// LinearSVC is a one-vs-rest linear svm with squared hinge loss,
// trained with dual coordinate descent. The intercept is learned as an extra constant feature.
type LinearSVC struct {
	Classes []int       `json:"classes"`
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
	Dim     int         `json:"dim"`
	cfg     Config
}

// NewLinearSVC creates a new linear svm.
func NewLinearSVC(cfg Config) *LinearSVC {
	return &LinearSVC{cfg: cfg}
}

// Fit trains one binary machine per class.
func (l *LinearSVC) Fit(x []text.Vector, y []int, dim int) error {
	cc, err := classes(x, y)
	if err != nil {
		return err
	}
	l.Classes = cc
	l.Dim = dim
	l.Weights = make([][]float64, len(cc))
	l.Bias = make([]float64, len(cc))

	// squared norms including the constant bias feature
	q := make([]float64, len(x))
	for i, row := range x {
		q[i] = row.SquaredNorm() + 1
	}

	for c, class := range cc {
		signs := make([]float64, len(y))
		for i, label := range y {
			signs[i] = -1
			if label == class {
				signs[i] = 1
			}
		}
		w, b, err := l.dual(x, signs, q, dim)
		if err != nil {
			return fmt.Errorf("class %d: %w", class, err)
		}
		l.Weights[c] = w
		l.Bias[c] = b
	}
	return nil
}

func (l *LinearSVC) dual(x []text.Vector, signs []float64, q []float64, dim int) ([]float64, float64, error) {
	d := 0.5 / l.cfg.C
	alpha := make([]float64, len(x))
	w := make([]float64, dim)
	b := 0.0
	rng := rand.New(rand.NewSource(l.cfg.Seed))

	for iter := 0; iter < l.cfg.MaxIter; iter++ {
		maxPG, minPG := math.Inf(-1), math.Inf(1)
		for _, i := range rng.Perm(len(x)) {
			g := signs[i]*(x[i].Dot(w)+b) - 1 + d*alpha[i]
			pg := g
			if alpha[i] == 0 && g > 0 {
				pg = 0
			}
			maxPG = math.Max(maxPG, pg)
			minPG = math.Min(minPG, pg)
			if math.Abs(pg) < 1e-12 {
				continue
			}
			prev := alpha[i]
			alpha[i] = math.Max(alpha[i]-g/(q[i]+d), 0)
			delta := (alpha[i] - prev) * signs[i]
			x[i].AddTo(w, delta)
			b += delta
		}
		if maxPG-minPG <= l.cfg.Tolerance {
			log.Debug().Int("iterations", iter+1).Msg("linear svm converged")
			return w, b, nil
		}
	}
	return nil, 0, fmt.Errorf("after %d iterations: %w", l.cfg.MaxIter, ErrNotConverged)
}

// Predict returns the class with the highest decision value for each row.
func (l *LinearSVC) Predict(x []text.Vector) ([]int, error) {
	if len(l.Weights) == 0 {
		return nil, ErrNotFitted
	}
	predictions := make([]int, len(x))
	scores := make([]float64, len(l.Classes))
	for i, row := range x {
		for c := range l.Classes {
			scores[c] = row.Dot(l.Weights[c]) + l.Bias[c]
		}
		predictions[i] = l.Classes[floats.MaxIdx(scores)]
	}
	return predictions, nil
}
