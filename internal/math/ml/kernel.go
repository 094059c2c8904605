package ml

import (
	"fmt"
	"math"

	"github.com/drakos74/opistocks/internal/text"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Machine is a binary rbf svm separating two classes.
type Machine struct {
	Positive int           `json:"positive"`
	Negative int           `json:"negative"`
	Vectors  []text.Vector `json:"vectors"`
	Norms    []float64     `json:"norms"`
	// Coef holds alpha × sign of each support vector.
	Coef []float64 `json:"coef"`
}

// KernelSVC is a one-vs-one svm with an rbf kernel.
// Each binary machine is trained with dual coordinate descent over K(x, z) + 1,
// which absorbs the intercept into the kernel.
type KernelSVC struct {
	Classes  []int     `json:"classes"`
	Gamma    float64   `json:"gamma"`
	Machines []Machine `json:"machines"`
	cfg      Config
}

// NewKernelSVC creates a new kernel svm.
func NewKernelSVC(cfg Config) *KernelSVC {
	return &KernelSVC{cfg: cfg}
}

// Fit trains one machine per pair of classes.
func (k *KernelSVC) Fit(x []text.Vector, y []int, dim int) error {
	cc, err := classes(x, y)
	if err != nil {
		return err
	}
	k.Classes = cc
	k.Gamma = k.cfg.Gamma
	if k.Gamma <= 0 {
		k.Gamma = scaleGamma(x, dim)
	}

	norms := make([]float64, len(x))
	for i, row := range x {
		norms[i] = row.SquaredNorm()
	}

	k.Machines = make([]Machine, 0, len(cc)*(len(cc)-1)/2)
	for a := 0; a < len(cc); a++ {
		for b := a + 1; b < len(cc); b++ {
			idx := make([]int, 0)
			signs := make([]float64, 0)
			for i, label := range y {
				switch label {
				case cc[a]:
					idx = append(idx, i)
					signs = append(signs, 1)
				case cc[b]:
					idx = append(idx, i)
					signs = append(signs, -1)
				}
			}
			m, err := k.dual(x, norms, idx, signs)
			if err != nil {
				return fmt.Errorf("classes %d-%d: %w", cc[a], cc[b], err)
			}
			m.Positive = a
			m.Negative = b
			k.Machines = append(k.Machines, m)
		}
	}
	return nil
}

// scaleGamma returns 1 / (features × variance of all feature values).
func scaleGamma(x []text.Vector, dim int) float64 {
	total := float64(len(x) * dim)
	if total == 0 {
		return 1
	}
	sum, squares := 0.0, 0.0
	for _, row := range x {
		sum += floats.Sum(row.Value)
		squares += floats.Dot(row.Value, row.Value)
	}
	mean := sum / total
	variance := squares/total - mean*mean
	if variance <= 0 {
		return 1
	}
	return 1 / (float64(dim) * variance)
}

func (k *KernelSVC) rbf(u text.Vector, nu float64, v text.Vector, nv float64) float64 {
	return math.Exp(-k.Gamma * (nu + nv - 2*u.DotSparse(v)))
}

func (k *KernelSVC) dual(x []text.Vector, norms []float64, idx []int, signs []float64) (Machine, error) {
	m := len(idx)
	size := k.cfg.KernelCache
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New(size)
	if err != nil {
		return Machine{}, fmt.Errorf("could not create kernel cache: %w", err)
	}
	row := func(i int) []float64 {
		if r, ok := cache.Get(i); ok {
			return r.([]float64)
		}
		r := make([]float64, m)
		for j := 0; j < m; j++ {
			r[j] = k.rbf(x[idx[i]], norms[idx[i]], x[idx[j]], norms[idx[j]]) + 1
		}
		cache.Add(i, r)
		return r
	}

	c := k.cfg.C
	alpha := make([]float64, m)
	f := make([]float64, m)
	rng := rand.New(rand.NewSource(k.cfg.Seed))

	converged := false
	for iter := 0; iter < k.cfg.MaxIter; iter++ {
		maxPG, minPG := math.Inf(-1), math.Inf(1)
		for _, i := range rng.Perm(m) {
			g := signs[i]*f[i] - 1
			pg := g
			switch {
			case alpha[i] == 0:
				pg = math.Min(g, 0)
			case alpha[i] == c:
				pg = math.Max(g, 0)
			}
			maxPG = math.Max(maxPG, pg)
			minPG = math.Min(minPG, pg)
			if math.Abs(pg) < 1e-12 {
				continue
			}
			r := row(i)
			prev := alpha[i]
			alpha[i] = math.Min(math.Max(alpha[i]-g/r[i], 0), c)
			delta := (alpha[i] - prev) * signs[i]
			floats.AddScaled(f, delta, r)
		}
		if maxPG-minPG <= k.cfg.Tolerance {
			log.Debug().Int("iterations", iter+1).Int("samples", m).Msg("kernel svm converged")
			converged = true
			break
		}
	}
	if !converged {
		return Machine{}, fmt.Errorf("after %d iterations: %w", k.cfg.MaxIter, ErrNotConverged)
	}

	machine := Machine{
		Vectors: make([]text.Vector, 0),
		Norms:   make([]float64, 0),
		Coef:    make([]float64, 0),
	}
	for i, a := range alpha {
		if a > 0 {
			machine.Vectors = append(machine.Vectors, x[idx[i]])
			machine.Norms = append(machine.Norms, norms[idx[i]])
			machine.Coef = append(machine.Coef, a*signs[i])
		}
	}
	return machine, nil
}

// Predict returns the class with most pairwise votes for each row.
// Ties go to the lower class.
func (k *KernelSVC) Predict(x []text.Vector) ([]int, error) {
	if len(k.Machines) == 0 {
		return nil, ErrNotFitted
	}
	predictions := make([]int, len(x))
	votes := make([]float64, len(k.Classes))
	for i, row := range x {
		for c := range votes {
			votes[c] = 0
		}
		norm := row.SquaredNorm()
		for _, m := range k.Machines {
			decision := 0.0
			for j, sv := range m.Vectors {
				decision += m.Coef[j] * (k.rbf(sv, m.Norms[j], row, norm) + 1)
			}
			if decision > 0 {
				votes[m.Positive]++
			} else {
				votes[m.Negative]++
			}
		}
		predictions[i] = k.Classes[floats.MaxIdx(votes)]
	}
	return predictions, nil
}
