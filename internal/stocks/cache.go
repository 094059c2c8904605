package stocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/drakos74/opistocks/internal/model"
	"github.com/drakos74/opistocks/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	historyBucket = "history"
	nameBucket    = "name"
)

type entry struct {
	Fetched time.Time     `json:"fetched"`
	Name    string        `json:"name,omitempty"`
	Prices  []model.Price `json:"prices,omitempty"`
}

// CachedProvider keeps the full history of every requested index in a store,
// and serves ranges from it until the entry expires.
type CachedProvider struct {
	lock     sync.Mutex
	upstream Provider
	store    storage.Persistence
	ttl      time.Duration
	now      func() time.Time
}

// NewCachedProvider caches the upstream provider responses for the given duration.
func NewCachedProvider(upstream Provider, store storage.Persistence, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		upstream: upstream,
		store:    store,
		ttl:      ttl,
		now:      time.Now,
	}
}

func key(bucket, index string) storage.Key {
	return storage.Key{Bucket: bucket, Label: strings.ToUpper(index)}
}

func (c *CachedProvider) cached(k storage.Key) (entry, bool) {
	var e entry
	if err := c.store.Load(k, &e); err != nil {
		if !errors.Is(err, storage.NotFoundErr) {
			log.Warn().Err(err).Str("key", k.Path()).Msg("could not read cache")
		}
		return e, false
	}
	if c.ttl > 0 && c.now().Sub(e.Fetched) > c.ttl {
		return e, false
	}
	return e, true
}

func (c *CachedProvider) keep(k storage.Key, e entry) {
	if err := c.store.Store(k, e); err != nil {
		log.Warn().Err(err).Str("key", k.Path()).Msg("could not update cache")
	}
}

func (c *CachedProvider) History(ctx context.Context, index string, from, to time.Time) ([]model.Price, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	k := key(historyBucket, index)
	e, ok := c.cached(k)
	if !ok {
		prices, err := c.upstream.History(ctx, index, time.Time{}, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("could not load history for '%s': %w", index, err)
		}
		e = entry{Fetched: c.now(), Prices: prices}
		c.keep(k, e)
	}
	return between(e.Prices, from, to)
}

func (c *CachedProvider) Name(ctx context.Context, index string) (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	k := key(nameBucket, index)
	if e, ok := c.cached(k); ok {
		return e.Name, nil
	}
	name, err := c.upstream.Name(ctx, index)
	if err != nil {
		return "", err
	}
	c.keep(k, entry{Fetched: c.now(), Name: name})
	return name, nil
}
