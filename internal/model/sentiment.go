package model

import (
	"encoding/json"
	"fmt"
)

// Sentiment is the shared three-class prediction target.
type Sentiment int

const (
	// Negative sentiment.
	Negative Sentiment = -1
	// Neutral sentiment.
	Neutral Sentiment = 0
	// Positive sentiment.
	Positive Sentiment = 1
)

// Sentiments lists the classes in their canonical order.
var Sentiments = []Sentiment{Negative, Neutral, Positive}

var sentimentNames = map[Sentiment]string{
	Negative: "negative",
	Neutral:  "neutral",
	Positive: "positive",
}

var sentimentFromName = map[string]Sentiment{
	"negative": Negative,
	"neutral":  Neutral,
	"positive": Positive,
}

// ClassNames returns the class names in canonical order.
func ClassNames() []string {
	names := make([]string, len(Sentiments))
	for i, s := range Sentiments {
		names[i] = s.String()
	}
	return names
}

// ParseSentiment parses a class name.
func ParseSentiment(name string) (Sentiment, error) {
	if s, ok := sentimentFromName[name]; ok {
		return s, nil
	}
	return Neutral, fmt.Errorf("unknown sentiment '%s'", name)
}

// Valid returns true if the value is one of the three classes.
func (s Sentiment) Valid() bool {
	_, ok := sentimentNames[s]
	return ok
}

func (s Sentiment) String() string {
	if name, ok := sentimentNames[s]; ok {
		return name
	}
	return fmt.Sprintf("sentiment(%d)", int(s))
}

// Index returns the position of the class in Sentiments.
func (s Sentiment) Index() int {
	return int(s) + 1
}

// FromIndex is the inverse of Index.
func FromIndex(i int) Sentiment {
	return Sentiment(i - 1)
}

// Score maps the class onto the 1/3/5 scale exposed by the api.
func (s Sentiment) Score() int {
	return 2*int(s) + 3
}

func (s Sentiment) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Sentiment) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, err := ParseSentiment(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
