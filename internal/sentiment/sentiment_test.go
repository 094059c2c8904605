package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/drakos74/opistocks/internal/math/ml"
	"github.com/drakos74/opistocks/internal/model"
	"github.com/drakos74/opistocks/internal/storage"
	filestore "github.com/drakos74/opistocks/internal/storage/file/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var words = map[model.Sentiment][]string{
	model.Negative: {"awful", "terrible", "broken", "delayed", "angry"},
	model.Neutral:  {"report", "meeting", "schedule", "announced", "quarterly"},
	model.Positive: {"great", "lovely", "awesome", "happy", "amazing"},
}

func corpus(n int) model.Corpus {
	samples := make([]model.Sample, 0, 3*n)
	for i := 0; i < n; i++ {
		for _, s := range model.Sentiments {
			samples = append(samples, model.Sample{
				Text:      fmt.Sprintf("%s %s day %d", words[s][i%5], words[s][(i+1)%5], i),
				Sentiment: s,
			})
		}
	}
	return model.NewCorpus("combined", samples...)
}

func train(t *testing.T, kind ml.Kind) *Model {
	m, err := Train(corpus(10), 0, kind, ml.DefaultConfig())
	require.NoError(t, err)
	return m
}

func TestModel_Predict(t *testing.T) {
	for _, kind := range []ml.Kind{ml.LinearSVM, ml.KernelSVM, ml.NaiveBayes} {
		t.Run(string(kind), func(t *testing.T) {
			m := train(t, kind)
			assert.Equal(t, kind, m.Kind())
			ss, err := m.Predict("an awful and angry day", "what a lovely happy crew", "the quarterly report")
			require.NoError(t, err)
			assert.Equal(t, []model.Sentiment{model.Negative, model.Positive, model.Neutral}, ss)
		})
	}
}

func TestTrain_Errors(t *testing.T) {
	_, err := Train(corpus(3), 16, ml.NaiveBayes, ml.DefaultConfig())
	assert.Error(t, err)

	_, err = Train(corpus(3), 0, "perceptron", ml.DefaultConfig())
	assert.True(t, errors.Is(err, ml.ErrUnknownKind))

	single := model.NewCorpus("single", model.Sample{Text: "awful day", Sentiment: model.Negative})
	_, err = Train(single, 0, ml.LinearSVM, ml.DefaultConfig())
	assert.True(t, errors.Is(err, ml.ErrSingleClass))
}

func TestModel_SaveLoad(t *testing.T) {
	key := storage.Key{Bucket: storage.ModelsDir, Label: "sentiment"}
	stores := map[string]storage.Persistence{
		"mock": storage.NewMockStorage(),
		"file": filestore.NewStorage(t.TempDir()),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			m := train(t, ml.LinearSVM)
			require.NoError(t, m.Save(store, key))

			loaded, err := Load(store, key)
			require.NoError(t, err)
			assert.Equal(t, ml.LinearSVM, loaded.Kind())

			texts := []string{"terrible broken day", "amazing great day", "meeting announced"}
			expected, err := m.Predict(texts...)
			require.NoError(t, err)
			actual, err := loaded.Predict(texts...)
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		})
	}

	_, err := Load(storage.NewMockStorage(), key)
	assert.Error(t, err)
}

func TestClassifier(t *testing.T) {
	loads := 0
	m := train(t, ml.NaiveBayes)
	clf, err := NewClassifier(func() (*Model, error) {
		loads++
		return m, nil
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, loads)

	score, err := clf.Score("such an awful day")
	require.NoError(t, err)
	assert.Equal(t, 1, score)
	score, err = clf.Score("such an awful day")
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	s, err := clf.Sentiment("lovely and happy")
	require.NoError(t, err)
	assert.Equal(t, model.Positive, s)

	score, err = clf.Score("quarterly meeting")
	require.NoError(t, err)
	assert.Equal(t, 3, score)
	assert.Equal(t, 1, loads)
}

func TestClassifier_LoadError(t *testing.T) {
	loads := 0
	clf, err := NewClassifier(func() (*Model, error) {
		loads++
		return nil, storage.NotFoundErr
	}, 10)
	require.NoError(t, err)

	_, err = clf.Score("anything")
	assert.True(t, errors.Is(err, storage.NotFoundErr))
	_, err = clf.Sentiment("anything else")
	assert.True(t, errors.Is(err, storage.NotFoundErr))
	assert.Equal(t, 1, loads)
}

func TestTags(t *testing.T) {
	tags := Tags([]string{
		"AAPL is the best, AAPL!",
		"the new iphone from aapl",
		"iphone sales and the best quarter",
		"quarter results",
	}, 3)
	assert.Equal(t, []string{"aapl", "best", "iphone"}, tags)

	assert.Empty(t, Tags([]string{"the and of"}, 5))
	assert.Equal(t, []string{"aapl"}, Tags([]string{"The, the; AND... aapl (of)"}, 5))
	assert.Len(t, Tags([]string{"alpha beta gamma delta epsilon zeta eta"}, 5), 5)
}

func at(day int) time.Time {
	return time.Date(2021, time.March, day, 12, 0, 0, 0, time.UTC)
}

func TestFileSource_Search(t *testing.T) {
	source := NewMemorySource(
		Tweet{Text: "AAPL up", CreatedAt: at(1)},
		Tweet{Text: "aapl down", CreatedAt: at(3)},
		Tweet{Text: "tsla flat", CreatedAt: at(2)},
	)
	found, err := source.Search(context.Background(), Query{Terms: []string{"aapl"}})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, at(3), found[0].CreatedAt)

	found, err = source.Search(context.Background(), Query{Terms: []string{"AAPL", "tsla"}, Until: at(3)})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "tsla flat", found[0].Text)

	found, err = source.Search(context.Background(), Query{Terms: []string{"aapl", "tsla"}, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = source.Search(ctx, Query{Terms: []string{"aapl"}})
	assert.Error(t, err)
}

func TestNewFileSource(t *testing.T) {
	dir := t.TempDir()
	tweets := []Tweet{{Text: "aapl great", CreatedAt: at(1)}}
	require.NoError(t, filestore.Save(dir, "tweets.json", tweets))

	source, err := NewFileSource(filepath.Join(dir, "tweets.json"))
	require.NoError(t, err)
	found, err := source.Search(context.Background(), Query{Terms: []string{"aapl"}})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = NewFileSource(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestTimeline_Between(t *testing.T) {
	source := NewMemorySource(
		Tweet{Text: "AAPL awful and angry", CreatedAt: at(1)},
		Tweet{Text: "aapl lovely happy", CreatedAt: at(1).Add(time.Hour)},
		Tweet{Text: "AAPL quarterly report", CreatedAt: at(2)},
		Tweet{Text: "aapl great amazing", CreatedAt: at(3)},
		Tweet{Text: "aapl great amazing", CreatedAt: at(9)},
		Tweet{Text: "tsla sideways", CreatedAt: at(2)},
	)
	m := train(t, ml.NaiveBayes)
	clf, err := NewClassifier(func() (*Model, error) {
		return m, nil
	}, 100)
	require.NoError(t, err)

	timeline := NewTimeline(source, clf)
	points, err := timeline.Between(context.Background(), "AAPL", at(1), at(3))
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, Point{Date: 20210301, Score: 3}, points[0])
	assert.Equal(t, Point{Date: 20210302, Score: 3}, points[1])
	assert.Equal(t, Point{Date: 20210303, Score: 5}, points[2])

	data, err := json.Marshal(points)
	require.NoError(t, err)
	assert.JSONEq(t, `[[20210301,3],[20210302,3],[20210303,5]]`, string(data))

	_, err = timeline.Between(context.Background(), "AAPL", at(3), at(1))
	assert.Error(t, err)
}
