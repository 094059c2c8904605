package stocks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/drakos74/opistocks/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	DefaultYahooURL = "https://query1.finance.yahoo.com"
	historyPath     = "/v7/finance/download/"
	quotePath       = "/v7/finance/quote"
)

// YahooProvider downloads the daily histories from the yahoo finance api.
type YahooProvider struct {
	BaseURL string
	client  *http.Client
}

// NewYahooProvider creates a yahoo provider for the given base url.
func NewYahooProvider(baseURL string, timeout time.Duration) *YahooProvider {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	return &YahooProvider{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (y *YahooProvider) get(ctx context.Context, index string, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request for '%s': %w", index, err)
	}
	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach yahoo for '%s': %w", index, err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("yahoo has no '%s': %w", index, ErrUnknownIndex)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("yahoo responded %d for '%s'", resp.StatusCode, index)
	}
}

// History downloads the history of the index. An open start means the first trading day.
func (y *YahooProvider) History(ctx context.Context, index string, from, to time.Time) ([]model.Price, error) {
	start := from
	if start.IsZero() {
		start = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	end := to
	if end.IsZero() {
		end = time.Now().UTC()
	}
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	// the end day is exclusive on the api
	params.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	params.Set("interval", "1d")
	params.Set("events", "history")
	u := fmt.Sprintf("%s%s%s?%s", y.BaseURL, historyPath, url.PathEscape(index), params.Encode())

	resp, err := y.get(ctx, index, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	prices, err := parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read history for '%s': %w", index, err)
	}
	log.Debug().Str("index", index).Int("prices", len(prices)).Msg("downloaded history")
	return between(prices, from, to)
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol    string `json:"symbol"`
			ShortName string `json:"shortName"`
			LongName  string `json:"longName"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// Name looks up the name of the index quote.
func (y *YahooProvider) Name(ctx context.Context, index string) (string, error) {
	if index == "" {
		return "", ErrUnknownIndex
	}
	params := url.Values{}
	params.Set("symbols", index)
	resp, err := y.get(ctx, index, fmt.Sprintf("%s%s?%s", y.BaseURL, quotePath, params.Encode()))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return "", fmt.Errorf("could not decode quote for '%s': %w", index, err)
	}
	for _, r := range quote.QuoteResponse.Result {
		if r.LongName != "" {
			return r.LongName, nil
		}
		if r.ShortName != "" {
			return r.ShortName, nil
		}
	}
	return "", fmt.Errorf("no quote for '%s': %w", index, ErrUnknownIndex)
}
