package bolt

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/drakos74/opistocks/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := NewStorage(path)
	require.NoError(t, err)

	k := storage.Key{Bucket: "history", Label: "AAPL"}
	require.NoError(t, s.Store(k, []float64{1, 2, 3}))

	var values []float64
	require.NoError(t, s.Load(k, &values))
	assert.Equal(t, []float64{1, 2, 3}, values)

	err = s.Load(storage.Key{Bucket: "history", Label: "MSFT"}, &values)
	assert.True(t, errors.Is(err, storage.NotFoundErr))
	err = s.Load(storage.Key{Bucket: "names", Label: "AAPL"}, &values)
	assert.True(t, errors.Is(err, storage.NotFoundErr))

	// values survive re-opening the database
	require.NoError(t, s.Close())
	s, err = NewStorage(path)
	require.NoError(t, err)
	defer s.Close()
	values = nil
	require.NoError(t, s.Load(k, &values))
	assert.Equal(t, []float64{1, 2, 3}, values)
}
