package sentiment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/drakos74/opistocks/internal/math/ml"
	"github.com/drakos74/opistocks/internal/model"
	"github.com/drakos74/opistocks/internal/storage"
	"github.com/drakos74/opistocks/internal/text"
)

// Artifact is the persisted form of a trained model.
type Artifact struct {
	Kind       ml.Kind          `json:"kind"`
	Config     int              `json:"config"`
	Corpus     string           `json:"corpus"`
	Samples    int              `json:"samples"`
	Trained    time.Time        `json:"trained"`
	Vectorizer *text.Vectorizer `json:"vectorizer"`
	Classifier json.RawMessage  `json:"classifier"`
}

// Model is a fitted vectorizer and classifier pair.
type Model struct {
	artifact   Artifact
	vectorizer *text.Vectorizer
	classifier ml.Classifier
}

// Train fits the feature config at the given catalog index and the classifier kind on the whole corpus.
func Train(c model.Corpus, config int, kind ml.Kind, cfg ml.Config) (*Model, error) {
	catalog := text.Catalog()
	if config < 0 || config >= len(catalog) {
		return nil, fmt.Errorf("no feature config at index %d", config)
	}
	vectorizer := text.NewVectorizer(catalog[config])
	x, err := vectorizer.FitTransform(c.Texts())
	if err != nil {
		return nil, fmt.Errorf("could not vectorize '%s': %w", c.Name, err)
	}
	clf, err := ml.New(kind, cfg)
	if err != nil {
		return nil, err
	}
	if err := clf.Fit(x, c.Labels(), vectorizer.Dim()); err != nil {
		return nil, fmt.Errorf("could not train '%s' on '%s': %w", kind, c.Name, err)
	}
	return &Model{
		artifact: Artifact{
			Kind:    kind,
			Config:  config,
			Corpus:  c.Name,
			Samples: c.Len(),
			Trained: time.Now(),
		},
		vectorizer: vectorizer,
		classifier: clf,
	}, nil
}

// Predict classifies the given texts.
func (m *Model) Predict(texts ...string) ([]model.Sentiment, error) {
	x, err := m.vectorizer.Transform(texts)
	if err != nil {
		return nil, err
	}
	labels, err := m.classifier.Predict(x)
	if err != nil {
		return nil, err
	}
	sentiments := make([]model.Sentiment, len(labels))
	for i, l := range labels {
		sentiments[i] = model.FromIndex(l)
	}
	return sentiments, nil
}

// Kind returns the classifier kind of the model.
func (m *Model) Kind() ml.Kind {
	return m.artifact.Kind
}

// Save stores the model artifact under the given key.
func (m *Model) Save(store storage.Persistence, key storage.Key) error {
	data, err := json.Marshal(m.classifier)
	if err != nil {
		return fmt.Errorf("could not encode '%s' classifier: %w", m.artifact.Kind, err)
	}
	artifact := m.artifact
	artifact.Vectorizer = m.vectorizer
	artifact.Classifier = data
	return store.Store(key, artifact)
}

// Load restores a model from its artifact.
func Load(store storage.Persistence, key storage.Key) (*Model, error) {
	var artifact Artifact
	if err := store.Load(key, &artifact); err != nil {
		return nil, err
	}
	if artifact.Vectorizer == nil {
		return nil, fmt.Errorf("artifact '%s' has no vectorizer: %w", key.Path(), storage.CouldNotLoadErr)
	}
	clf, err := ml.Decode(artifact.Kind, artifact.Classifier)
	if err != nil {
		return nil, err
	}
	// builds the analyzer before the model is shared
	artifact.Vectorizer.Analyze("")
	return &Model{
		artifact:   artifact,
		vectorizer: artifact.Vectorizer,
		classifier: clf,
	}, nil
}
