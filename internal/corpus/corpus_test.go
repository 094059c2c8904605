package corpus

import (
	"errors"
	"fmt"
	"testing"

	"github.com/drakos74/opistocks/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fivePoint() model.Corpus {
	sentiments := []model.Sentiment{
		model.Negative, model.Negative, model.Neutral, model.Positive, model.Positive,
		model.Negative, model.Negative, model.Neutral, model.Positive, model.Positive,
	}
	samples := make([]model.Sample, len(sentiments))
	for i, s := range sentiments {
		samples[i] = model.Sample{Text: fmt.Sprintf("text-%d", i), Sentiment: s}
	}
	return model.NewCorpus("five-point", samples...)
}

func sequence(n int) model.Corpus {
	samples := make([]model.Sample, n)
	for i := 0; i < n; i++ {
		samples[i] = model.Sample{Text: fmt.Sprintf("%d", i), Sentiment: model.Sentiments[i%3]}
	}
	return model.NewCorpus("sequence", samples...)
}

func TestConcat(t *testing.T) {
	a := fivePoint()
	b := sequence(4)
	c := Concat("combined", a, b)

	assert.Equal(t, "combined", c.Name)
	assert.Equal(t, a.Len()+b.Len(), c.Len())
	assert.Equal(t, a.Samples, c.Samples[:a.Len()])
	assert.Equal(t, b.Samples, c.Samples[a.Len():])
}

func TestMinClassCount(t *testing.T) {
	assert.Equal(t, 2, MinClassCount(fivePoint()))
	assert.Equal(t, 0, MinClassCount(model.NewCorpus("empty")))
}

func TestBalance(t *testing.T) {
	source := fivePoint()
	balanced, err := Balance(source, 2, 17)
	require.NoError(t, err)

	assert.Equal(t, 6, balanced.Len())
	counts := balanced.Counts()
	for _, s := range model.Sentiments {
		assert.Equal(t, 2, counts[s])
	}

	// every sample must come from the source with the same class, and only once
	origin := make(map[string]model.Sentiment)
	for _, s := range source.Samples {
		origin[s.Text] = s.Sentiment
	}
	seen := make(map[string]bool)
	for _, s := range balanced.Samples {
		sentiment, ok := origin[s.Text]
		assert.True(t, ok)
		assert.Equal(t, sentiment, s.Sentiment)
		assert.False(t, seen[s.Text])
		seen[s.Text] = true
	}
}

func TestBalance_Deterministic(t *testing.T) {
	first, err := Balance(fivePoint(), 2, 42)
	require.NoError(t, err)
	second, err := Balance(fivePoint(), 2, 42)
	require.NoError(t, err)
	assert.Equal(t, first.Samples, second.Samples)
}

func TestBalance_Idempotent(t *testing.T) {
	balanced, err := Balance(fivePoint(), 2, 1)
	require.NoError(t, err)

	again, err := Balance(balanced, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, balanced.Len(), again.Len())
	assert.Equal(t, balanced.Counts(), again.Counts())
	assert.ElementsMatch(t, balanced.Samples, again.Samples)
}

func TestBalance_Underflow(t *testing.T) {
	_, err := Balance(fivePoint(), 3, 17)
	assert.True(t, errors.Is(err, ErrBalanceUnderflow))

	_, err = Balance(fivePoint(), -1, 17)
	assert.True(t, errors.Is(err, ErrBalanceUnderflow))
}

func TestShuffle(t *testing.T) {
	source := sequence(50)
	first := Shuffle(source, 7)
	second := Shuffle(source, 7)
	other := Shuffle(source, 8)

	assert.Equal(t, first.Samples, second.Samples)
	assert.NotEqual(t, first.Samples, other.Samples)
	assert.ElementsMatch(t, source.Samples, first.Samples)
	// the source is left untouched
	assert.Equal(t, "0", source.Samples[0].Text)
}

func TestSample(t *testing.T) {
	source := sequence(100)

	sampled := Sample(source, 10, 3)
	assert.Equal(t, 10, sampled.Len())
	assert.Equal(t, sampled.Samples, Sample(source, 10, 3).Samples)

	all := Sample(source, 1000, 3)
	assert.Equal(t, 100, all.Len())
	assert.ElementsMatch(t, source.Samples, all.Samples)
}

func TestSplit(t *testing.T) {
	train, test, err := Split(100, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 80, train)
	assert.Equal(t, 20, test)

	train, test, err = Split(7, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 6, train)
	assert.Equal(t, 1, test)

	train, test, err = Split(10, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, train)
	assert.Equal(t, 0, test)

	for ratio, expected := range map[float64]int{0.29: 29, 0.57: 57, 0.58: 58, 0.99: 99} {
		train, test, err = Split(100, ratio)
		require.NoError(t, err)
		assert.Equal(t, expected, test, "ratio %v", ratio)
		assert.Equal(t, 100-expected, train, "ratio %v", ratio)
	}
	train, test, err = Split(10, 0.7)
	require.NoError(t, err)
	assert.Equal(t, 3, train)
	assert.Equal(t, 7, test)

	_, _, err = Split(10, 1)
	assert.True(t, errors.Is(err, ErrInvalidRatio))
	_, _, err = Split(10, -0.1)
	assert.True(t, errors.Is(err, ErrInvalidRatio))
}

func TestSplitCorpus(t *testing.T) {
	source := sequence(100)
	train, test, err := SplitCorpus(source, 0.2)
	require.NoError(t, err)

	assert.Equal(t, source.Samples[:80], train.Samples)
	assert.Equal(t, source.Samples[80:], test.Samples)
	assert.Equal(t, source.Samples, append(append([]model.Sample{}, train.Samples...), test.Samples...))
}
