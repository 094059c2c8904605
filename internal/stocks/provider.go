package stocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/drakos74/opistocks/internal/model"
	"github.com/gocarina/gocsv"
)

const dayLayout = "2006-01-02"

var (
	ErrUnknownIndex = errors.New("unknown index")
	ErrInvalidRange = errors.New("invalid date range")
)

// Provider gives access to the daily prices of stock indexes.
type Provider interface {
	// History returns the adjusted close prices of the index between the given days, both included.
	// Zero times leave the range open.
	History(ctx context.Context, index string, from, to time.Time) ([]model.Price, error)
	// Name returns the name of the index, or ErrUnknownIndex.
	Name(ctx context.Context, index string) (string, error)
}

// Valid checks if the index is known to the provider.
func Valid(ctx context.Context, p Provider, index string) bool {
	name, err := p.Name(ctx, index)
	return err == nil && name != ""
}

// ParseDate parses a YYYYMMDD date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("'%s' is not a YYYYMMDD date: %w", date, ErrInvalidRange)
	}
	return t, nil
}

// row is a line of the daily history csv format.
type row struct {
	Date     string `csv:"Date"`
	Open     string `csv:"Open"`
	High     string `csv:"High"`
	Low      string `csv:"Low"`
	Close    string `csv:"Close"`
	AdjClose string `csv:"Adj Close"`
	Volume   string `csv:"Volume"`
}

// parse reads the history csv, skipping the days without an adjusted close.
func parse(r io.Reader) ([]model.Price, error) {
	rows := make([]*row, 0)
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("could not parse history: %w", err)
	}
	prices := make([]model.Price, 0, len(rows))
	for _, l := range rows {
		if l.AdjClose == "" || l.AdjClose == "null" {
			continue
		}
		t, err := time.Parse(dayLayout, l.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date '%s': %w", l.Date, err)
		}
		v, err := strconv.ParseFloat(l.AdjClose, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price '%s' on %s: %w", l.AdjClose, l.Date, err)
		}
		prices = append(prices, model.NewPrice(v, t))
	}
	sort.SliceStable(prices, func(i, j int) bool {
		return prices[i].Time.Before(prices[j].Time)
	})
	return prices, nil
}

// between keeps the prices of the days in the range.
func between(prices []model.Price, from, to time.Time) ([]model.Price, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, fmt.Errorf("end %s before start %s: %w", to.Format(model.DateLayout), from.Format(model.DateLayout), ErrInvalidRange)
	}
	selected := make([]model.Price, 0, len(prices))
	for _, p := range prices {
		d := p.Date()
		if !from.IsZero() && d < model.NewPrice(0, from).Date() {
			continue
		}
		if !to.IsZero() && d > model.NewPrice(0, to).Date() {
			continue
		}
		selected = append(selected, p)
	}
	return selected, nil
}
