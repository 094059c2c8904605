package storage

import (
	"errors"
	"fmt"
)

const (
	ResultsDir = "modelselection"
	ModelsDir  = "models"
	CacheFile  = "cache.db"
)

var (
	DefaultDir = "file-storage"
)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key for a general implementation
type Key struct {
	Bucket string `json:"bucket"`
	Label  string `json:"label"`
}

func (k Key) Path() string {
	return fmt.Sprintf("%s_%s", k.Bucket, k.Label)
}

// Persistence stores and loads json serialisable values.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}

type VoidStorage struct {
}

func (d VoidStorage) Store(k Key, value interface{}) error {
	return nil
}

func (d VoidStorage) Load(k Key, value interface{}) error {
	return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
}

func NewVoidStorage() *VoidStorage {
	return &VoidStorage{}
}
