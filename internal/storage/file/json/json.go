package json

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/drakos74/opistocks/internal/storage"
)

// Save saves the given json struct into the given path with the provided filename.
func Save(filePath string, fileName string, value interface{}) error {
	// check if filepath exists
	info, err := os.Stat(filePath)
	if err != nil {
		err := os.MkdirAll(filePath, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}

	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal value for '%s': %w", fileName, err)
	}

	// write to a temporary file and move it in place
	p := filepath.Join(filePath, fileName)
	tmp := p + ".tmp"
	if err := ioutil.WriteFile(tmp, b, 0644); err != nil {
		return fmt.Errorf("could not write file '%s': %w", tmp, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("could not move '%s' to '%s': %w", tmp, p, err)
	}
	return nil
}

// Load loads the payload from the given filePath and fileName.
func Load(filePath string, fileName string, value interface{}) error {

	p := filepath.Join(filePath, fileName)

	data, err := ioutil.ReadFile(p)
	if err != nil {
		return fmt.Errorf("could not read file '%s' %s: %w", p, err.Error(), storage.NotFoundErr)
	}

	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("could not unmarshal '%s': %v: %w", p, err, storage.CouldNotLoadErr)
	}

	return nil
}

// Storage persists every key as a json file under <dir>/<bucket>/<label>.json.
type Storage struct {
	dir string
}

// NewStorage creates a file storage rooted at the given directory.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

func (s *Storage) Store(k storage.Key, value interface{}) error {
	return Save(filepath.Join(s.dir, k.Bucket), fileName(k), value)
}

func (s *Storage) Load(k storage.Key, value interface{}) error {
	return Load(filepath.Join(s.dir, k.Bucket), fileName(k), value)
}

func fileName(k storage.Key) string {
	return fmt.Sprintf("%s.json", k.Label)
}
