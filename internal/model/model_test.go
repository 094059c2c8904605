package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentiment(t *testing.T) {
	assert.Equal(t, []string{"negative", "neutral", "positive"}, ClassNames())

	scores := make([]int, 0)
	for i, s := range Sentiments {
		assert.True(t, s.Valid())
		assert.Equal(t, i, s.Index())
		assert.Equal(t, s, FromIndex(s.Index()))
		scores = append(scores, s.Score())
	}
	assert.Equal(t, []int{1, 3, 5}, scores)
	assert.False(t, Sentiment(2).Valid())
	assert.Equal(t, "sentiment(2)", Sentiment(2).String())

	_, err := ParseSentiment("angry")
	assert.Error(t, err)
}

func TestSentiment_JSON(t *testing.T) {
	b, err := json.Marshal(Sample{Text: "great", Sentiment: Positive})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"great","sentiment":"positive"}`, string(b))

	var s Sample
	require.NoError(t, json.Unmarshal([]byte(`{"text":"meh","sentiment":"neutral"}`), &s))
	assert.Equal(t, Neutral, s.Sentiment)
	assert.Error(t, json.Unmarshal([]byte(`{"sentiment":"angry"}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"sentiment":1}`), &s))
}

func TestCorpus(t *testing.T) {
	c := NewCorpus("c",
		Sample{Text: "a", Sentiment: Negative},
		Sample{Text: "b", Sentiment: Positive},
		Sample{Text: "c", Sentiment: Positive},
	)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"a", "b", "c"}, c.Texts())
	assert.Equal(t, []int{0, 2, 2}, c.Labels())
	assert.Equal(t, map[Sentiment]int{Negative: 1, Neutral: 0, Positive: 2}, c.Counts())
}

func TestPrice_JSON(t *testing.T) {
	p := NewPrice(121.5, time.Date(2021, time.March, 2, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, 20210302, p.Date())

	b, err := json.Marshal([]Price{p})
	require.NoError(t, err)
	assert.JSONEq(t, `[[20210302,121.5]]`, string(b))

	var prices []Price
	require.NoError(t, json.Unmarshal(b, &prices))
	require.Len(t, prices, 1)
	assert.Equal(t, 20210302, prices[0].Date())
	assert.Equal(t, 121.5, prices[0].Value)

	var broken Price
	assert.Error(t, json.Unmarshal([]byte(`[20210302]`), &broken))
	assert.Error(t, json.Unmarshal([]byte(`[20211302,1]`), &broken))
}
