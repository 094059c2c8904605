// Package corpus assembles normalized datasets into training corpora.
//
// All randomness is driven by an explicit seed so that a run can be reproduced
// from the same source data.
package corpus

import (
	"errors"
	"fmt"
	"math"

	"github.com/drakos74/opistocks/internal/model"
	"golang.org/x/exp/rand"
)

var (
	// ErrBalanceUnderflow is returned when more samples per class are requested than available.
	ErrBalanceUnderflow = errors.New("not enough samples per class")
	// ErrInvalidRatio is returned for a test ratio outside [0,1).
	ErrInvalidRatio = errors.New("invalid test ratio")
)

// Concat concatenates the corpora preserving the order of appearance.
func Concat(name string, corpora ...model.Corpus) model.Corpus {
	size := 0
	for _, c := range corpora {
		size += c.Len()
	}
	samples := make([]model.Sample, 0, size)
	for _, c := range corpora {
		samples = append(samples, c.Samples...)
	}
	return model.NewCorpus(name, samples...)
}

// MinClassCount returns the size of the smallest class.
func MinClassCount(c model.Corpus) int {
	counts := c.Counts()
	min := math.MaxInt32
	for _, s := range model.Sentiments {
		if counts[s] < min {
			min = counts[s]
		}
	}
	return min
}

// Balance draws exactly k samples per class without replacement and shuffles the result.
// k is validated against the smallest class before any sampling happens.
func Balance(c model.Corpus, k int, seed uint64) (model.Corpus, error) {
	min := MinClassCount(c)
	if k < 0 || k > min {
		return model.Corpus{}, fmt.Errorf("requested %d per class for '%s' but smallest class has %d: %w", k, c.Name, min, ErrBalanceUnderflow)
	}

	byClass := make(map[model.Sentiment][]int, len(model.Sentiments))
	for i, s := range c.Samples {
		byClass[s.Sentiment] = append(byClass[s.Sentiment], i)
	}

	rng := rand.New(rand.NewSource(seed))
	samples := make([]model.Sample, 0, k*len(model.Sentiments))
	for _, s := range model.Sentiments {
		indices := byClass[s]
		for _, p := range rng.Perm(len(indices))[:k] {
			samples = append(samples, c.Samples[indices[p]])
		}
	}
	shuffle(samples, rng)
	return model.NewCorpus(c.Name, samples...), nil
}

// Shuffle returns a copy of the corpus in a seeded random order.
func Shuffle(c model.Corpus, seed uint64) model.Corpus {
	samples := make([]model.Sample, c.Len())
	copy(samples, c.Samples)
	shuffle(samples, rand.New(rand.NewSource(seed)))
	return model.NewCorpus(c.Name, samples...)
}

// Sample draws n samples without replacement.
// If n is not positive or exceeds the corpus size, the whole corpus is shuffled instead.
func Sample(c model.Corpus, n int, seed uint64) model.Corpus {
	if n <= 0 || n >= c.Len() {
		return Shuffle(c, seed)
	}
	rng := rand.New(rand.NewSource(seed))
	samples := make([]model.Sample, n)
	for i, p := range rng.Perm(c.Len())[:n] {
		samples[i] = c.Samples[p]
	}
	return model.NewCorpus(c.Name, samples...)
}

func shuffle(samples []model.Sample, rng *rand.Rand) {
	rng.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
}

// Split returns the size of the training prefix and the held-out suffix
// for n rows and the given test ratio.
func Split(n int, ratio float64) (train int, test int, err error) {
	if ratio < 0 || ratio >= 1 || math.IsNaN(ratio) {
		return 0, 0, fmt.Errorf("ratio %v: %w", ratio, ErrInvalidRatio)
	}
	// decimal ratios like 0.29 fall just below the exact product in float64
	test = int(math.Floor(ratio*float64(n) + 1e-9*float64(n)))
	return n - test, test, nil
}

// SplitCorpus splits the corpus into a contiguous training prefix and test suffix.
func SplitCorpus(c model.Corpus, ratio float64) (model.Corpus, model.Corpus, error) {
	train, _, err := Split(c.Len(), ratio)
	if err != nil {
		return model.Corpus{}, model.Corpus{}, err
	}
	return model.NewCorpus(c.Name, c.Samples[:train]...),
		model.NewCorpus(c.Name, c.Samples[train:]...),
		nil
}
