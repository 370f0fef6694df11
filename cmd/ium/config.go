package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/cheminfo/filelist"
)

// fileConfig is the content of the --config file. YAML files are
// converted to JSON first, so both formats use the json field names.
type fileConfig struct {
	Options  filelist.Options `json:"options"`
	BaseURL  string           `json:"baseURL,omitempty"`
	Mimetype string           `json:"mimetype,omitempty"`
	LogLevel string           `json:"logLevel,omitempty"`
	Cache    cacheConfig      `json:"cache"`
	Registry registryConfig   `json:"registry"`
}

type cacheConfig struct {
	// Kind is none, memory or disk.
	Kind     string `json:"kind,omitempty"`
	Dir      string `json:"dir,omitempty"`
	MaxBytes int64  `json:"maxBytes,omitempty"`
}

type registryConfig struct {
	PlainHTTP bool   `json:"plainHTTP,omitempty"`
	Host      string `json:"host,omitempty"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	Token     string `json:"token,omitempty"`
}

func loadConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, err
	}
	cfg, err := parseConfig(data, filepath.Ext(path))
	if err != nil {
		return fileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func parseConfig(data []byte, ext string) (fileConfig, error) {
	var js []byte
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fileConfig{}, err
		}
		if raw == nil {
			return fileConfig{}, nil
		}
		converted, err := json.Marshal(raw)
		if err != nil {
			return fileConfig{}, err
		}
		js = converted
	case ".json", ".jsonc", "":
		js = jsonc.ToJSON(data)
	default:
		return fileConfig{}, fmt.Errorf("unsupported config format %q", ext)
	}

	var cfg fileConfig
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}
