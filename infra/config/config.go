package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Dir is the directory the config files are loaded from.
var Dir = "infra/config"

// MustLoad loads the config for the given key
func MustLoad(key string, v interface{}) []byte {
	b, err := Load(key, v)
	if err != nil {
		panic(err.Error())
	}
	return b
}

// Load loads the config for the given key from <Dir>/<key>.json.
func Load(key string, v interface{}) ([]byte, error) {
	return LoadFile(filepath.Join(Dir, fmt.Sprintf("%s.json", key)), v)
}

// LoadFile unmarshals the json file at the given path into v.
// Fields missing from the file keep the values v already holds.
func LoadFile(path string, v interface{}) ([]byte, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not load config from %s: %w", path, err)
	}

	err = json.Unmarshal(b, v)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal the config from %s: %w", path, err)
	}

	log.Info().Str("config", path).Msg("loaded config")

	return b, nil
}
