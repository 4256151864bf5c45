package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StorageFile     = "file"
	StorageDatabase = "database"

	// LanguagePlaceholder is replaced by a language code in the Wikipedia base URL.
	LanguagePlaceholder = "{lang}"
)

type Config struct {
	Sources  SourcesConfig  `mapstructure:"sources"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Media    MediaConfig    `mapstructure:"media"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
}

type SourcesConfig struct {
	Wikipedia SourceConfig `mapstructure:"wikipedia"`
	Wikidata  SourceConfig `mapstructure:"wikidata"`
	Commons   SourceConfig `mapstructure:"commons"`
	Nominatim SourceConfig `mapstructure:"nominatim"`
}

type SourceConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,baseurl"`
	// MinInterval is the minimum time between two requests to the source. 0 disables pacing.
	MinInterval time.Duration `mapstructure:"min_interval" validate:"gte=0"`
}

// URLFor returns BaseURL with the language placeholder replaced.
func (c SourceConfig) URLFor(language string) string {
	return strings.ReplaceAll(c.BaseURL, LanguagePlaceholder, language)
}

type FetchConfig struct {
	MaxAttempts uint          `mapstructure:"max_attempts" validate:"gte=1"`
	BaseDelay   time.Duration `mapstructure:"base_delay" validate:"gt=0"`
	MaxDelay    time.Duration `mapstructure:"max_delay" validate:"gtefield=BaseDelay"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent   string        `mapstructure:"user_agent" validate:"required"`
	Breaker     BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures" validate:"gte=1"`
	Timeout             time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type MediaConfig struct {
	ThumbnailWidth int `mapstructure:"thumbnail_width" validate:"gte=1"`
	FullImageWidth int `mapstructure:"full_image_width" validate:"gte=1"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type" validate:"oneof=file database"`
	DataDirectory string `mapstructure:"data_directory" validate:"required_if=Type file"`
}

// MediaDirectory holds the file-backed media cache.
func (c StorageConfig) MediaDirectory() string {
	return filepath.Join(c.DataDirectory, "media")
}

// SpeciesFile holds the file-backed species list.
func (c StorageConfig) SpeciesFile() string {
	return filepath.Join(c.DataDirectory, "species.yml")
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gte=1,lte=65535"`
	CORS CORSConfig `mapstructure:"cors"`
	// RequestsPerMinute limits requests per client IP. 0 disables the limit.
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gte=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/birdlog")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("sources.wikipedia.base_url", "https://"+LanguagePlaceholder+".wikipedia.org")
	v.SetDefault("sources.wikipedia.min_interval", 500*time.Millisecond)
	v.SetDefault("sources.wikidata.base_url", "https://www.wikidata.org")
	v.SetDefault("sources.wikidata.min_interval", 500*time.Millisecond)
	v.SetDefault("sources.commons.base_url", "https://commons.wikimedia.org")
	v.SetDefault("sources.commons.min_interval", 500*time.Millisecond)
	v.SetDefault("sources.nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("sources.nominatim.min_interval", time.Second)
	v.SetDefault("fetch.max_attempts", 3)
	v.SetDefault("fetch.base_delay", time.Second)
	v.SetDefault("fetch.max_delay", 8*time.Second)
	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.user_agent", "birdlog/1.0 (https://github.com/at-ishikawa/birdlog)")
	v.SetDefault("fetch.breaker.enabled", true)
	v.SetDefault("fetch.breaker.consecutive_failures", 5)
	v.SetDefault("fetch.breaker.timeout", 30*time.Second)
	v.SetDefault("media.thumbnail_width", 100)
	v.SetDefault("media.full_image_width", 800)
	v.SetDefault("storage.type", StorageFile)
	v.SetDefault("storage.data_directory", "data")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "birdlog")
	v.SetDefault("database.username", "user")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.requests_per_minute", 60)

	// Wikimedia asks every client to identify itself
	if err := v.BindEnv("fetch.user_agent", "BIRDLOG_USER_AGENT"); err != nil {
		return nil, fmt.Errorf("failed to bind BIRDLOG_USER_AGENT environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
