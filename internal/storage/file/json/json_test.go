package json

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/drakos74/opistocks/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func TestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	err := Save(dir, "payload.json", payload{Name: "a", Values: []float64{1, 2}})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "payload.json.tmp"))
	assert.True(t, os.IsNotExist(err))

	var p payload
	require.NoError(t, Load(dir, "payload.json", &p))
	assert.Equal(t, payload{Name: "a", Values: []float64{1, 2}}, p)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	var p payload
	err := Load(dir, "missing.json", &p)
	assert.True(t, errors.Is(err, storage.NotFoundErr))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
	err = Load(dir, "broken.json", &p)
	assert.True(t, errors.Is(err, storage.CouldNotLoadErr))
}

func TestStorage(t *testing.T) {
	s := NewStorage(t.TempDir())
	k := storage.Key{Bucket: "models", Label: "prod"}
	require.NoError(t, s.Store(k, payload{Name: "prod"}))

	var p payload
	require.NoError(t, s.Load(k, &p))
	assert.Equal(t, "prod", p.Name)

	err := s.Load(storage.Key{Bucket: "models", Label: "other"}, &p)
	assert.True(t, errors.Is(err, storage.NotFoundErr))
}
