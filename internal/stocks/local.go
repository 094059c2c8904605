package stocks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/drakos74/opistocks/internal/model"
)

// LocalProvider reads the histories from a directory of <INDEX>.csv files.
type LocalProvider struct {
	dir string
}

// NewLocalProvider creates a provider over the given directory.
func NewLocalProvider(dir string) *LocalProvider {
	return &LocalProvider{dir: dir}
}

func (l *LocalProvider) path(index string) string {
	return filepath.Join(l.dir, fmt.Sprintf("%s.csv", strings.ToUpper(index)))
}

func (l *LocalProvider) History(ctx context.Context, index string, from, to time.Time) ([]model.Price, error) {
	f, err := os.Open(l.path(index))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("no history for '%s': %w", index, ErrUnknownIndex)
	}
	if err != nil {
		return nil, fmt.Errorf("could not open history for '%s': %w", index, err)
	}
	defer f.Close()
	prices, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not read history for '%s': %w", index, err)
	}
	return between(prices, from, to)
}

// Name returns the index itself, if there is a history file for it.
func (l *LocalProvider) Name(ctx context.Context, index string) (string, error) {
	if index == "" {
		return "", ErrUnknownIndex
	}
	if _, err := os.Stat(l.path(index)); err != nil {
		return "", fmt.Errorf("no history for '%s': %w", index, ErrUnknownIndex)
	}
	return strings.ToUpper(index), nil
}
