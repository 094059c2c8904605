package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/drakos74/opistocks/internal/model"
	"github.com/drakos74/opistocks/internal/text"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog/log"
)

const (
	searchLimit = 100
	tagCount    = 5
)

// Point is the mean sentiment score of a day.
type Point struct {
	Date  int
	Score float64
}

// MarshalJSON encodes the point as a [YYYYMMDD, score] pair.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.Date, p.Score})
}

// Timeline computes daily sentiment for a stock index from tweets.
type Timeline struct {
	source     TweetSource
	classifier *Classifier
}

// NewTimeline creates a timeline over the given tweets.
func NewTimeline(source TweetSource, classifier *Classifier) *Timeline {
	return &Timeline{
		source:     source,
		classifier: classifier,
	}
}

// Between returns the mean daily score of the tweets about the index, sorted by date.
// Tweets are selected by the index, or by the most common terms of the tweets mentioning it.
func (t *Timeline) Between(ctx context.Context, index string, from, to time.Time) ([]Point, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("end %s before start %s", to.Format(model.DateLayout), from.Format(model.DateLayout))
	}

	sample := make([]Tweet, 0)
	for _, until := range []time.Time{to, from} {
		tweets, err := t.source.Search(ctx, Query{Terms: []string{index}, Until: until, Limit: searchLimit})
		if err != nil {
			return nil, fmt.Errorf("could not search tweets for '%s': %w", index, err)
		}
		sample = append(sample, tweets...)
	}
	texts := make([]string, len(sample))
	for i, tweet := range sample {
		texts[i] = tweet.Text
	}
	tags := Tags(texts, tagCount)
	log.Debug().Str("index", index).Strs("tags", tags).Int("tweets", len(sample)).Msg("selected tags")

	terms := append([]string{index}, tags...)
	seen := make(map[Tweet]bool)
	scores := make(map[int]stats.Float64Data)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		tweets, err := t.source.Search(ctx, Query{Terms: terms, Until: day.AddDate(0, 0, 1), Limit: searchLimit})
		if err != nil {
			return nil, fmt.Errorf("could not search tweets for '%s': %w", index, err)
		}
		for _, tweet := range tweets {
			if seen[tweet] {
				continue
			}
			seen[tweet] = true
			score, err := t.classifier.Score(tweet.Text)
			if err != nil {
				return nil, err
			}
			date := dateOf(tweet.CreatedAt)
			scores[date] = append(scores[date], float64(score))
		}
	}

	points := make([]Point, 0, len(scores))
	for date, ss := range scores {
		mean, err := stats.Mean(ss)
		if err != nil {
			return nil, fmt.Errorf("could not average day %d: %w", date, err)
		}
		points = append(points, Point{Date: date, Score: mean})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points, nil
}

// Week returns the daily scores of the last seven days.
func (t *Timeline) Week(ctx context.Context, index string) ([]Point, error) {
	to := time.Now().UTC().Truncate(24 * time.Hour)
	return t.Between(ctx, index, to.AddDate(0, 0, -7), to)
}

func dateOf(t time.Time) int {
	d, _ := strconv.Atoi(t.UTC().Format(model.DateLayout))
	return d
}

// trim strips surrounding punctuation and drops the tokens left empty.
func trim(ts text.Tokens) text.Tokens {
	trimmed := ts[:0]
	for _, t := range ts {
		t = strings.TrimFunc(t, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return trimmed
}

// Tags returns the n most common terms of the texts, ignoring stop words and surrounding punctuation.
// Ties keep the order of first appearance.
func Tags(texts []string, n int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, txt := range texts {
		tokens := text.Tokens(strings.Fields(txt))
		tokens = text.NewProcessor(text.Lower, trim, text.RemoveStopWords).Apply(tokens)
		for _, token := range tokens {
			if _, ok := counts[token]; !ok {
				order = append(order, token)
			}
			counts[token]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}
