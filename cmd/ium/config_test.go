package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ext     string
		data    string
		wantErr bool
		check   func(t *testing.T, cfg fileConfig)
	}{
		{
			name: "yaml",
			ext:  ".yaml",
			data: `
logLevel: debug
options:
  unzip:
    zipExtensions: [zip, jdx.zip]
cache:
  kind: disk
  maxBytes: 1048576
registry:
  host: ghcr.io
  token: secret
`,
			check: func(t *testing.T, cfg fileConfig) {
				assert.Equal(t, "debug", cfg.LogLevel)
				require.NotNil(t, cfg.Options.Unzip)
				assert.Equal(t, []string{"zip", "jdx.zip"}, cfg.Options.Unzip.ZipExtensions)
				assert.Equal(t, "disk", cfg.Cache.Kind)
				assert.EqualValues(t, 1<<20, cfg.Cache.MaxBytes)
				assert.Equal(t, "ghcr.io", cfg.Registry.Host)
				assert.Equal(t, "secret", cfg.Registry.Token)
			},
		},
		{
			name: "empty yaml",
			ext:  ".yml",
			data: "",
			check: func(t *testing.T, cfg fileConfig) {
				assert.Equal(t, fileConfig{}, cfg)
			},
		},
		{
			name: "jsonc",
			ext:  ".jsonc",
			data: `{
				// staging registry
				"registry": {"host": "localhost:5000", "plainHTTP": true,},
				"baseURL": "https://data.example.org/", /* listing root */
			}`,
			check: func(t *testing.T, cfg fileConfig) {
				assert.True(t, cfg.Registry.PlainHTTP)
				assert.Equal(t, "localhost:5000", cfg.Registry.Host)
				assert.Equal(t, "https://data.example.org/", cfg.BaseURL)
			},
		},
		{name: "unknown field", ext: ".json", data: `{"cahce":{}}`, wantErr: true},
		{name: "bad yaml", ext: ".yaml", data: "a: [", wantErr: true},
		{name: "unsupported format", ext: ".toml", data: `kind = "disk"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := parseConfig([]byte(tt.data), tt.ext)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestOpenCache(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{"", "none"} {
		c, err := (&app{cacheKind: kind}).openCache()
		require.NoError(t, err)
		assert.Nil(t, c)
	}

	c, err := (&app{cacheKind: "memory"}).openCache()
	require.NoError(t, err)
	assert.NotNil(t, c)

	c, err = (&app{cacheKind: "DISK", cacheDir: t.TempDir()}).openCache()
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = (&app{cacheKind: "tape"}).openCache()
	require.Error(t, err)
}
