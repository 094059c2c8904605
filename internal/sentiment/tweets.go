package sentiment

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/drakos74/opistocks/internal/storage/file/json"
)

// Tweet is a short text published at a given time.
type Tweet struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Query selects the tweets mentioning any of the terms, published before Until.
type Query struct {
	Terms []string
	Until time.Time
	Limit int
}

// TweetSource searches tweets.
type TweetSource interface {
	Search(ctx context.Context, q Query) ([]Tweet, error)
}

// FileSource serves tweets from a json file.
type FileSource struct {
	tweets []Tweet
}

// NewFileSource loads the tweets of the given json file.
func NewFileSource(path string) (*FileSource, error) {
	tweets := make([]Tweet, 0)
	if err := json.Load(filepath.Dir(path), filepath.Base(path), &tweets); err != nil {
		return nil, err
	}
	return NewMemorySource(tweets...), nil
}

// NewMemorySource serves the given tweets.
func NewMemorySource(tweets ...Tweet) *FileSource {
	sorted := make([]Tweet, len(tweets))
	copy(sorted, tweets)
	// newest first, like the search api
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return &FileSource{tweets: sorted}
}

// Search returns the newest matching tweets, case-insensitively.
func (f *FileSource) Search(ctx context.Context, q Query) ([]Tweet, error) {
	terms := make([]string, len(q.Terms))
	for i, t := range q.Terms {
		terms[i] = strings.ToLower(t)
	}
	found := make([]Tweet, 0)
	for _, tweet := range f.tweets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if q.Limit > 0 && len(found) >= q.Limit {
			break
		}
		if !q.Until.IsZero() && !tweet.CreatedAt.Before(q.Until) {
			continue
		}
		txt := strings.ToLower(tweet.Text)
		for _, term := range terms {
			if strings.Contains(txt, term) {
				found = append(found, tweet)
				break
			}
		}
	}
	return found, nil
}
