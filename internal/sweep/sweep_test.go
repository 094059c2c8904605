package sweep

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/drakos74/opistocks/infra/config"
	"github.com/drakos74/opistocks/internal/corpus"
	"github.com/drakos74/opistocks/internal/dataset"
	"github.com/drakos74/opistocks/internal/math/ml"
	"github.com/drakos74/opistocks/internal/model"
	"github.com/drakos74/opistocks/internal/storage/file/json"
	"github.com/drakos74/opistocks/internal/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vocabulary = map[model.Sentiment][]string{
	model.Negative: {"awful", "terrible", "broken", "delayed", "angry"},
	model.Neutral:  {"report", "meeting", "schedule", "announced", "quarterly"},
	model.Positive: {"great", "lovely", "awesome", "happy", "amazing"},
}

func tweets(name string, n int) model.Corpus {
	samples := make([]model.Sample, 0, 3*n)
	for i := 0; i < n; i++ {
		for _, s := range model.Sentiments {
			words := vocabulary[s]
			samples = append(samples, model.Sample{
				Text:      fmt.Sprintf("The %s and %s Flight %d", words[i%5], words[(i+2)%5], i),
				Sentiment: s,
			})
		}
	}
	return corpus.Shuffle(model.NewCorpus(name, samples...), 1)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 4
	return cfg
}

func TestRunner_Run(t *testing.T) {
	sources := []model.Corpus{tweets("a", 30), tweets("b", 20)}
	corpora, err := Assemble(sources, testConfig().Corpus)
	require.NoError(t, err)
	require.Len(t, corpora, 3)

	catalog := text.Catalog()
	results, err := NewRunner(testConfig(), catalog).Run(context.Background(), corpora)
	require.NoError(t, err)

	assert.NotEmpty(t, results.RunID)
	assert.Equal(t, catalog, results.Catalog)
	require.Len(t, results.Corpora, 3)
	assert.Equal(t, "combined", results.Corpora[2].Name)

	for _, kind := range ml.Kinds {
		grid := results.Reports[kind]
		require.Len(t, grid, 3)
		for c := range corpora {
			require.Len(t, grid[c], len(catalog))
			for f := range catalog {
				cell := results.Get(kind, c, f)
				if c == 2 && kind == ml.KernelSVM {
					assert.Nil(t, cell)
					continue
				}
				require.NotNil(t, cell, "%s %d %d", kind, c, f)
				assert.True(t, cell.OK(), cell.Error)
				assert.Equal(t, f, cell.Config)
				assert.Equal(t, corpora[c].Name, cell.Corpus)
				assert.Equal(t, corpora[c].Len(), cell.Train+cell.Test)
				assert.Equal(t, corpora[c].Len()/4, cell.Test)
				assert.Len(t, cell.Report.Classes, 3)
			}
		}
	}

	ok, failed := results.Count()
	assert.Equal(t, (3*3-1)*len(catalog), ok)
	assert.Equal(t, 0, failed)

	// the class vocabularies are disjoint, so unigram features should get most rows right
	assert.True(t, results.Get(ml.NaiveBayes, 0, 0).Report.Accuracy > 0.8)

	best := results.Best(ml.NaiveBayes, 0)
	require.NotNil(t, best)
	for f := range catalog {
		assert.True(t, best.Report.Accuracy >= results.Get(ml.NaiveBayes, 0, f).Report.Accuracy)
	}
	assert.Nil(t, results.Best(ml.KernelSVM, 2))
}

func TestRunner_Deterministic(t *testing.T) {
	corpora := []model.Corpus{tweets("a", 10), tweets("b", 10)}
	catalog := text.Catalog()[:4]

	first, err := NewRunner(testConfig(), catalog).Run(context.Background(), corpora)
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Workers = 1
	second, err := NewRunner(cfg, catalog).Run(context.Background(), corpora)
	require.NoError(t, err)

	for _, kind := range []ml.Kind{ml.LinearSVM, ml.NaiveBayes} {
		for c := range corpora {
			for f := range catalog {
				assert.Equal(t, first.Get(kind, c, f).Report, second.Get(kind, c, f).Report)
			}
		}
	}
}

// skewed has a single class in the training prefix.
func skewed() model.Corpus {
	samples := make([]model.Sample, 0, 10)
	for i := 0; i < 8; i++ {
		samples = append(samples, model.Sample{Text: fmt.Sprintf("awful delay %d", i), Sentiment: model.Negative})
	}
	samples = append(samples,
		model.Sample{Text: "great flight", Sentiment: model.Positive},
		model.Sample{Text: "lovely crew", Sentiment: model.Positive},
	)
	return model.NewCorpus("skewed", samples...)
}

func TestRunner_Abort(t *testing.T) {
	cfg := testConfig()
	cfg.TestRatio = 0.2
	_, err := NewRunner(cfg, text.Catalog()).Run(context.Background(), []model.Corpus{skewed(), tweets("b", 5)})
	assert.True(t, errors.Is(err, ml.ErrSingleClass))
}

func TestRunner_Record(t *testing.T) {
	cfg := testConfig()
	cfg.TestRatio = 0.2
	cfg.Failure = Record
	corpora := []model.Corpus{skewed(), tweets("b", 5)}
	results, err := NewRunner(cfg, text.Catalog()).Run(context.Background(), corpora)
	require.NoError(t, err)

	for f := range text.Catalog() {
		cell := results.Get(ml.LinearSVM, 0, f)
		require.NotNil(t, cell)
		assert.False(t, cell.OK())
		assert.Contains(t, cell.Error, ml.ErrSingleClass.Error())
		assert.True(t, results.Get(ml.NaiveBayes, 1, f).OK())
	}
}

func TestRunner_RecordEmptyVocabulary(t *testing.T) {
	cfg := testConfig()
	cfg.Failure = Record
	stop := model.NewCorpus("stop",
		model.Sample{Text: "the and of", Sentiment: model.Negative},
		model.Sample{Text: "of the", Sentiment: model.Positive},
		model.Sample{Text: "and the", Sentiment: model.Neutral},
		model.Sample{Text: "the of", Sentiment: model.Positive},
	)
	catalog := []text.FeatureConfig{
		{Weighting: text.Count, NGram: 1, StopWords: text.English, Lowercase: true},
		{Weighting: text.Count, NGram: 1, StopWords: text.NoStopWords, Lowercase: true},
	}
	results, err := NewRunner(cfg, catalog).Run(context.Background(), []model.Corpus{stop, tweets("b", 5)})
	require.NoError(t, err)

	cell := results.Get(ml.NaiveBayes, 0, 0)
	require.NotNil(t, cell)
	assert.Contains(t, cell.Error, text.ErrEmptyVocabulary.Error())
	assert.True(t, results.Get(ml.NaiveBayes, 0, 1).OK())
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(testConfig(), text.Catalog()).Run(ctx, []model.Corpus{tweets("a", 5)})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunner_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TestRatio = 1
	_, err := NewRunner(cfg, text.Catalog()).Run(context.Background(), []model.Corpus{tweets("a", 5)})
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Failure = "ignore"
	assert.Error(t, cfg.Validate())

	cfg = testConfig()
	cfg.Kinds = []ml.Kind{"perceptron"}
	assert.Error(t, cfg.Validate())

	cfg = testConfig()
	cfg.Corpus.Sample = 100
	assert.Error(t, cfg.Validate())
}

func TestConfig_File(t *testing.T) {
	cfg := DefaultConfig()
	_, err := config.LoadFile("../../infra/config/modelselection.json", &cfg)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ml.Kinds, cfg.Kinds)
	assert.Equal(t, uint64(17), cfg.Corpus.Seed)
	assert.Equal(t, 0.25, cfg.TestRatio)
	assert.Equal(t, Abort, cfg.Failure)
	assert.Equal(t, ml.DefaultConfig(), cfg.Model)
	assert.Len(t, cfg.DataSources(), 4)
}

func TestAssemble(t *testing.T) {
	unbalanced := model.NewCorpus("unbalanced",
		model.Sample{Text: "a1", Sentiment: model.Negative},
		model.Sample{Text: "a2", Sentiment: model.Negative},
		model.Sample{Text: "a3", Sentiment: model.Negative},
		model.Sample{Text: "b1", Sentiment: model.Neutral},
		model.Sample{Text: "c1", Sentiment: model.Positive},
		model.Sample{Text: "c2", Sentiment: model.Positive},
	)
	cfg := DefaultConfig().Corpus
	corpora, err := Assemble([]model.Corpus{unbalanced}, cfg)
	require.NoError(t, err)
	require.Len(t, corpora, 2)

	assert.ElementsMatch(t, unbalanced.Samples, corpora[0].Samples)
	combined := corpora[1]
	assert.Equal(t, 3, combined.Len())
	for _, n := range combined.Counts() {
		assert.Equal(t, 1, n)
	}

	again, err := Assemble([]model.Corpus{unbalanced}, cfg)
	require.NoError(t, err)
	assert.Equal(t, combined.Samples, again[1].Samples)

	cfg.PerClass = 2
	_, err = Assemble([]model.Corpus{unbalanced}, cfg)
	assert.True(t, errors.Is(err, corpus.ErrBalanceUnderflow))

	cfg = DefaultConfig().Corpus
	cfg.Balance = false
	cfg.Sample = 4
	corpora, err = Assemble([]model.Corpus{unbalanced, tweets("b", 4)}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, corpora[2].Len())

	empty := model.NewCorpus("empty", model.Sample{Text: "only negative", Sentiment: model.Negative})
	_, err = Assemble([]model.Corpus{empty}, DefaultConfig().Corpus)
	assert.True(t, errors.Is(err, corpus.ErrBalanceUnderflow))
}

func TestPrepare(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sources = []dataset.Source{
		{
			Name:        "self-drive",
			Path:        "../dataset/testdata/five_point.csv",
			Encoding:    dataset.Latin1,
			TextColumn:  "text",
			LabelColumn: "sentiment",
			Irrelevant:  []string{"not_relevant"},
			Mapping:     dataset.Scale5,
		},
	}
	corpora, err := Prepare(cfg)
	require.NoError(t, err)
	require.Len(t, corpora, 2)
	assert.Equal(t, 10, corpora[0].Len())
	assert.Equal(t, 6, corpora[1].Len())

	cfg.Sources[0].Path = "../dataset/testdata/missing.csv"
	_, err = Prepare(cfg)
	assert.True(t, errors.Is(err, dataset.ErrLoad))
}

func TestResults_Save(t *testing.T) {
	corpora := []model.Corpus{tweets("a", 5)}
	catalog := text.Catalog()[:2]
	results, err := NewRunner(testConfig(), catalog).Run(context.Background(), corpora)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "results")
	name, err := results.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, results.RunID+".json", name)

	var loaded Results
	require.NoError(t, json.Load(dir, name, &loaded))
	assert.Equal(t, results.RunID, loaded.RunID)
	assert.Equal(t, catalog, loaded.Catalog)
	// the single corpus is also the combined one, so the kernel svm is skipped
	assert.Nil(t, loaded.Get(ml.KernelSVM, 0, 0))
	require.True(t, loaded.Get(ml.NaiveBayes, 0, 1).OK())
	assert.Equal(t, *results.Get(ml.NaiveBayes, 0, 1).Report, *loaded.Get(ml.NaiveBayes, 0, 1).Report)
}
