package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			Wikipedia: SourceConfig{BaseURL: "https://{lang}.wikipedia.org", MinInterval: 500 * time.Millisecond},
			Wikidata:  SourceConfig{BaseURL: "https://www.wikidata.org", MinInterval: 500 * time.Millisecond},
			Commons:   SourceConfig{BaseURL: "https://commons.wikimedia.org", MinInterval: 500 * time.Millisecond},
			Nominatim: SourceConfig{BaseURL: "https://nominatim.openstreetmap.org", MinInterval: time.Second},
		},
		Fetch: FetchConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    8 * time.Second,
			Timeout:     15 * time.Second,
			UserAgent:   "birdlog/1.0 (https://github.com/at-ishikawa/birdlog)",
			Breaker: BreakerConfig{
				Enabled:             true,
				ConsecutiveFailures: 5,
				Timeout:             30 * time.Second,
			},
		},
		Media: MediaConfig{
			ThumbnailWidth: 100,
			FullImageWidth: 800,
		},
		Storage: StorageConfig{
			Type:          StorageFile,
			DataDirectory: "data",
		},
		Server: ServerConfig{
			Port:              8080,
			CORS:              CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
			RequestsPerMinute: 60,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "birdlog",
			Username: "user",
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:          "no config file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "valid config file with custom values",
			configContent: `sources:
  wikidata:
    base_url: http://localhost:9000
    min_interval: 1s
fetch:
  max_attempts: 5
  base_delay: 200ms
  max_delay: 2s
media:
  thumbnail_width: 120
storage:
  type: database
server:
  port: 9090
  cors:
    allowed_origins:
      - https://birds.example.com
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Sources.Wikidata = SourceConfig{BaseURL: "http://localhost:9000", MinInterval: time.Second}
				cfg.Fetch.MaxAttempts = 5
				cfg.Fetch.BaseDelay = 200 * time.Millisecond
				cfg.Fetch.MaxDelay = 2 * time.Second
				cfg.Media.ThumbnailWidth = 120
				cfg.Storage.Type = StorageDatabase
				cfg.Server.Port = 9090
				cfg.Server.CORS.AllowedOrigins = []string{"https://birds.example.com"}
				return cfg
			},
		},
		{
			name: "explicit config file path",
			configContent: `storage:
  data_directory: explicit/data
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Storage.DataDirectory = "explicit/data"
				return cfg
			},
		},
		{
			name:          "environment variables override secrets",
			configContent: "",
			env: map[string]string{
				"BIRDLOG_USER_AGENT": "birdlog-test/0.1 (test@example.com)",
				"DB_PASSWORD":        "secret",
			},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Fetch.UserAgent = "birdlog-test/0.1 (test@example.com)"
				cfg.Database.Password = "secret"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `sources:
  wikidata: [[[
`,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "base url with a path",
			configContent: `sources:
  commons:
    base_url: https://commons.wikimedia.org/w/api.php
`,
			wantErrorContains: []string{
				"sources.commons.base_url must be an http or https URL without a path",
			},
		},
		{
			name: "unknown storage type",
			configContent: `storage:
  type: s3
`,
			wantErrorContains: []string{
				"invalid configuration",
				"type must be one of [file database]",
			},
		},
		{
			name: "max delay below base delay",
			configContent: `fetch:
  base_delay: 10s
  max_delay: 1s
`,
			wantErrorContains: []string{
				"invalid configuration",
				"max_delay",
			},
		},
		{
			name: "zero attempts",
			configContent: `fetch:
  max_attempts: 0
`,
			wantErrorContains: []string{
				"max_attempts must be 1 or greater",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			tempDir := t.TempDir()

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "birdlog.yml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			} else {
				if tt.configContent != "" {
					require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644))
				}
				t.Chdir(tempDir)
				t.Setenv("HOME", tempDir)
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if len(tt.wantErrorContains) > 0 {
				require.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestSourceConfig_URLFor(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		language string
		want     string
	}{
		{
			name:     "placeholder in host",
			baseURL:  "https://{lang}.wikipedia.org",
			language: "sv",
			want:     "https://sv.wikipedia.org",
		},
		{
			name:     "no placeholder",
			baseURL:  "http://127.0.0.1:8080",
			language: "en",
			want:     "http://127.0.0.1:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SourceConfig{BaseURL: tt.baseURL}.URLFor(tt.language)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorageConfig_Paths(t *testing.T) {
	cfg := StorageConfig{Type: StorageFile, DataDirectory: "data"}
	assert.Equal(t, filepath.Join("data", "media"), cfg.MediaDirectory())
	assert.Equal(t, filepath.Join("data", "species.yml"), cfg.SpeciesFile())
}
