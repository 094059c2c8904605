package sentiment

import (
	"fmt"
	"sync"

	"github.com/drakos74/opistocks/internal/metrics"
	"github.com/drakos74/opistocks/internal/model"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

// Loader provides the model of a classifier.
type Loader func() (*Model, error)

// Classifier is the shared classification handle of the api.
// The model is loaded once, on first use.
type Classifier struct {
	once   sync.Once
	load   Loader
	model  *Model
	err    error
	recent *lru.Cache
}

// NewClassifier creates a classifier that caches the last cacheSize classified texts.
func NewClassifier(load Loader, cacheSize int) (*Classifier, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create cache: %w", err)
	}
	return &Classifier{
		load:   load,
		recent: cache,
	}, nil
}

func (c *Classifier) get() (*Model, error) {
	c.once.Do(func() {
		c.model, c.err = c.load()
		if c.err != nil {
			log.Error().Err(c.err).Msg("could not load sentiment model")
			return
		}
		log.Info().Str("kind", string(c.model.Kind())).Msg("loaded sentiment model")
	})
	return c.model, c.err
}

// Sentiment classifies the text.
func (c *Classifier) Sentiment(txt string) (model.Sentiment, error) {
	if s, ok := c.recent.Get(txt); ok {
		sentiment := s.(model.Sentiment)
		metrics.Observer.Classified(sentiment.String(), true)
		return sentiment, nil
	}
	m, err := c.get()
	if err != nil {
		return model.Neutral, err
	}
	ss, err := m.Predict(txt)
	if err != nil {
		return model.Neutral, fmt.Errorf("could not classify: %w", err)
	}
	c.recent.Add(txt, ss[0])
	metrics.Observer.Classified(ss[0].String(), false)
	return ss[0], nil
}

// Score classifies the text on the 1 (negative), 3 (neutral), 5 (positive) scale.
func (c *Classifier) Score(txt string) (int, error) {
	s, err := c.Sentiment(txt)
	if err != nil {
		return 0, err
	}
	return s.Score(), nil
}
