package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/drakos74/opistocks/internal/model"
)

const (
	// UTF8 is the default file encoding.
	UTF8 = "utf-8"
	// Latin1 is the encoding of the crowdflower exports.
	Latin1 = "latin1"
	// Windows1252 is accepted for exports re-saved on windows.
	Windows1252 = "cp1252"
)

// Mapping maps a raw label of a dataset onto the shared sentiment scale.
type Mapping map[string]model.Sentiment

// Source describes a raw dataset and how to normalize it.
type Source struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Encoding    string   `json:"encoding"`
	TextColumn  string   `json:"text_column"`
	LabelColumn string   `json:"label_column"`
	Irrelevant  []string `json:"irrelevant"`
	Mapping     Mapping  `json:"mapping"`
}

// Validate checks that the source is complete.
func (s Source) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("source without name for path '%s'", s.Path)
	}
	if s.Path == "" {
		return fmt.Errorf("no path for source '%s'", s.Name)
	}
	if s.TextColumn == "" || s.LabelColumn == "" {
		return fmt.Errorf("text and label columns are required for source '%s'", s.Name)
	}
	if len(s.Mapping) == 0 {
		return fmt.Errorf("empty label mapping for source '%s'", s.Name)
	}
	for label, sentiment := range s.Mapping {
		if !sentiment.Valid() {
			return fmt.Errorf("invalid sentiment %d for label '%s' of source '%s'", sentiment, label, s.Name)
		}
	}
	return nil
}

func (s Source) irrelevant(label string) bool {
	for _, l := range s.Irrelevant {
		if l == label {
			return true
		}
	}
	return false
}

// Scale5 collapses a 1-5 rating scale.
var Scale5 = Mapping{
	"1": model.Negative,
	"2": model.Negative,
	"3": model.Neutral,
	"4": model.Positive,
	"5": model.Positive,
}

// Scale3 maps the 1/3/5 rating scale.
var Scale3 = Mapping{
	"1": model.Negative,
	"3": model.Neutral,
	"5": model.Positive,
}

// Emotions collapses the named emotions of the text-emotion dataset.
var Emotions = Mapping{
	"sadness":    model.Negative,
	"enthusiasm": model.Positive,
	"neutral":    model.Neutral,
	"worry":      model.Negative,
	"surprise":   model.Positive,
	"love":       model.Positive,
	"fun":        model.Positive,
	"hate":       model.Negative,
	"happiness":  model.Positive,
	"boredom":    model.Negative,
	"relief":     model.Positive,
	"anger":      model.Negative,
}

// Polarity maps already normalized polarity names.
var Polarity = Mapping{
	"negative": model.Negative,
	"neutral":  model.Neutral,
	"positive": model.Positive,
}

// Defaults returns the four tweet datasets the classifier is built from,
// resolved against the given data directory.
func Defaults(dir string) []Source {
	return []Source{
		{
			Name:        "self-drive",
			Path:        filepath.Join(dir, "Twitter-sentiment-self-drive-DFE.csv"),
			Encoding:    Latin1,
			TextColumn:  "text",
			LabelColumn: "sentiment",
			Irrelevant:  []string{"not_relevant"},
			Mapping:     Scale5,
		},
		{
			Name:        "text-emotion",
			Path:        filepath.Join(dir, "text_emotion.csv"),
			Encoding:    UTF8,
			TextColumn:  "content",
			LabelColumn: "sentiment",
			Irrelevant:  []string{"empty"},
			Mapping:     Emotions,
		},
		{
			Name:        "apple",
			Path:        filepath.Join(dir, "Apple-Twitter-Sentiment-DFE.csv"),
			Encoding:    Latin1,
			TextColumn:  "text",
			LabelColumn: "sentiment",
			Irrelevant:  []string{"not_relevant"},
			Mapping:     Scale3,
		},
		{
			Name:        "airline",
			Path:        filepath.Join(dir, "Airline-Sentiment-2-w-AA.csv"),
			Encoding:    Latin1,
			TextColumn:  "text",
			LabelColumn: "airline_sentiment",
			Mapping:     Polarity,
		},
	}
}
