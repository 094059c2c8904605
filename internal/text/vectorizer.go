package text

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrEmptyVocabulary is returned when no document yields a single token.
	ErrEmptyVocabulary = errors.New("empty vocabulary")
	// ErrNotFitted is returned when transforming with a vectorizer that has not been fitted.
	ErrNotFitted = errors.New("vectorizer not fitted")
)

// Vectorizer turns documents into sparse feature rows for a FeatureConfig.
type Vectorizer struct {
	Config     FeatureConfig  `json:"config"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf,omitempty"`
	processor  *Processor
}

// NewVectorizer creates a vectorizer for the given config.
func NewVectorizer(cfg FeatureConfig) *Vectorizer {
	return &Vectorizer{Config: cfg}
}

func (v *Vectorizer) analyzer() *Processor {
	if v.processor != nil {
		return v.processor
	}
	funcs := make([]TokenFunc, 0, 3)
	if v.Config.Lowercase {
		funcs = append(funcs, Lower)
	}
	if v.Config.StopWords == English {
		funcs = append(funcs, RemoveStopWords)
	}
	n := v.Config.NGram
	funcs = append(funcs, func(ts Tokens) Tokens {
		return NGrams(n, ts)
	})
	v.processor = NewProcessor(funcs...)
	return v.processor
}

// Analyze returns the terms of the document under the vectorizer config.
func (v *Vectorizer) Analyze(doc string) Tokens {
	return v.analyzer().Apply(Tokenize(doc))
}

// Dim returns the vocabulary size.
func (v *Vectorizer) Dim() int {
	return len(v.Vocabulary)
}

// Fit learns the vocabulary, and for tfidf the document frequencies, from the documents.
func (v *Vectorizer) Fit(docs []string) error {
	if err := v.Config.Validate(); err != nil {
		return err
	}
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range v.Analyze(doc) {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	if len(df) == 0 {
		return fmt.Errorf("%d documents for '%s': %w", len(docs), v.Config, ErrEmptyVocabulary)
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
	}

	v.IDF = nil
	if v.Config.Weighting == TfIdf {
		n := float64(len(docs))
		v.IDF = make([]float64, len(terms))
		for i, term := range terms {
			v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
		}
	}
	return nil
}

// Transform maps the documents onto the fitted vocabulary.
// Terms outside the vocabulary are ignored.
func (v *Vectorizer) Transform(docs []string) ([]Vector, error) {
	if len(v.Vocabulary) == 0 {
		return nil, ErrNotFitted
	}
	rows := make([]Vector, len(docs))
	for i, doc := range docs {
		counts := make(map[int]float64)
		for _, term := range v.Analyze(doc) {
			if idx, ok := v.Vocabulary[term]; ok {
				counts[idx]++
			}
		}
		row := Vector{
			Index: make([]int, 0, len(counts)),
			Value: make([]float64, 0, len(counts)),
		}
		for idx := range counts {
			row.Index = append(row.Index, idx)
		}
		sort.Ints(row.Index)
		for _, idx := range row.Index {
			value := counts[idx]
			if v.IDF != nil {
				value *= v.IDF[idx]
			}
			row.Value = append(row.Value, value)
		}
		if v.IDF != nil {
			row = row.normalize()
		}
		rows[i] = row
	}
	return rows, nil
}

// FitTransform fits the vectorizer and transforms the same documents.
func (v *Vectorizer) FitTransform(docs []string) ([]Vector, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}
