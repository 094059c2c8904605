package text

import (
	"fmt"
)

// Weighting defines how token occurrences are turned into feature values.
type Weighting string

const (
	// Count uses raw term counts.
	Count Weighting = "count"
	// TfIdf uses l2 normalised term frequency × inverse document frequency.
	TfIdf Weighting = "tfidf"
)

// StopWords defines the stop word list to filter.
type StopWords string

const (
	// NoStopWords keeps every token.
	NoStopWords StopWords = "none"
	// English filters the english stop words.
	English StopWords = "english"
)

// FeatureConfig is one text vectorization setup.
type FeatureConfig struct {
	Weighting Weighting `json:"weighting"`
	NGram     int       `json:"ngram"`
	StopWords StopWords `json:"stop_words"`
	Lowercase bool      `json:"lowercase"`
}

func (c FeatureConfig) String() string {
	casing := "cased"
	if c.Lowercase {
		casing = "lower"
	}
	return fmt.Sprintf("%s|%d-gram|%s|%s", c.Weighting, c.NGram, c.StopWords, casing)
}

// Validate checks the config values.
func (c FeatureConfig) Validate() error {
	switch c.Weighting {
	case Count, TfIdf:
	default:
		return fmt.Errorf("unknown weighting '%s'", c.Weighting)
	}
	switch c.StopWords {
	case NoStopWords, English:
	default:
		return fmt.Errorf("unknown stop words '%s'", c.StopWords)
	}
	if c.NGram < 1 {
		return fmt.Errorf("invalid n-gram size %d", c.NGram)
	}
	return nil
}

// Catalog returns the 16 feature configs of the model selection in their fixed order.
// Result indices refer to positions in this list.
func Catalog() []FeatureConfig {
	configs := make([]FeatureConfig, 0, 16)
	for _, w := range []Weighting{Count, TfIdf} {
		for _, sw := range []StopWords{English, NoStopWords} {
			for _, n := range []int{1, 2} {
				for _, lower := range []bool{true, false} {
					configs = append(configs, FeatureConfig{
						Weighting: w,
						NGram:     n,
						StopWords: sw,
						Lowercase: lower,
					})
				}
			}
		}
	}
	return configs
}
