package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/handiism/grabflickr/internal/download"
	ioutils "github.com/handiism/grabflickr/internal/io"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that override settings,
// e.g. GRABFLICKR_API_KEY or GRABFLICKR_STRATEGY.
const EnvPrefix = "GRABFLICKR"

// AlbumPlaceholder is replaced by the album id in DownloadsPath.
const AlbumPlaceholder = "{album}"

// ErrMissingCredentials is returned by Validate when no API key or secret is set.
var ErrMissingCredentials = errors.New("flickr api key and secret are not configured")

// Settings holds all configuration options.
type Settings struct {
	// Flickr API credentials
	APIKey    string `json:"api_key" mapstructure:"api_key"`
	APISecret string `json:"api_secret" mapstructure:"api_secret"`
	APIURL    string `json:"api_url" mapstructure:"api_url"`

	// Download settings
	DownloadsPath  string `json:"downloads_path" mapstructure:"downloads_path"`
	SizePreference int    `json:"size_preference" mapstructure:"size_preference"` // 1 = largest, up to 9
	Strategy       string `json:"strategy" mapstructure:"strategy"`               // sequential, pool, cooperative
	Workers        int    `json:"workers" mapstructure:"workers"`                 // 0 = strategy default

	// File naming
	FileNameStyle string `json:"file_name_style" mapstructure:"file_name_style"` // title, slug

	HTTPTimeoutSeconds int `json:"http_timeout_seconds" mapstructure:"http_timeout_seconds"`

	// Logging
	LogLevel string `json:"log_level" mapstructure:"log_level"`
	LogFile  string `json:"log_file" mapstructure:"log_file"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		APIURL: "https://api.flickr.com/services/rest/",

		DownloadsPath:  AlbumPlaceholder,
		SizePreference: 1,
		Strategy:       download.Pool.String(),
		Workers:        0,

		FileNameStyle: ioutils.NameTitle.String(),

		HTTPTimeoutSeconds: 60,

		LogLevel: "INFO",
	}
}

// DefaultPath returns the default settings file for the current OS.
func DefaultPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "grabflickr", "config.json")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "grabflickr", "config.json")
	}
}

// Load reads settings from a JSON file and applies GRABFLICKR_* environment
// overrides on top.
//
// A missing file is not an error: the defaults (plus environment) are used.
func Load(path string) (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("api_key", defaults.APIKey)
	v.SetDefault("api_secret", defaults.APISecret)
	v.SetDefault("api_url", defaults.APIURL)
	v.SetDefault("downloads_path", defaults.DownloadsPath)
	v.SetDefault("size_preference", defaults.SizePreference)
	v.SetDefault("strategy", defaults.Strategy)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("file_name_style", defaults.FileNameStyle)
	v.SetDefault("http_timeout_seconds", defaults.HTTPTimeoutSeconds)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file", defaults.LogFile)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return settings, nil
}

// Save writes settings to a JSON file. The file holds the API secret, so it
// is only readable by the owner.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0600)
}

// HasCredentials reports whether both the API key and secret are set.
func (s *Settings) HasCredentials() bool {
	return strings.TrimSpace(s.APIKey) != "" && strings.TrimSpace(s.APISecret) != ""
}

// Validate checks every setting and returns all problems joined together.
func (s *Settings) Validate() error {
	var errs []error

	if !s.HasCredentials() {
		errs = append(errs, ErrMissingCredentials)
	}
	if s.SizePreference < 1 || s.SizePreference > 9 {
		errs = append(errs, fmt.Errorf("size_preference must be between 1 and 9, got %d", s.SizePreference))
	}
	if _, err := download.ParseStrategy(s.Strategy); err != nil {
		errs = append(errs, err)
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", s.Workers))
	}
	if _, err := ioutils.ParseNameStyle(s.FileNameStyle); err != nil {
		errs = append(errs, err)
	}
	if s.HTTPTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("http_timeout_seconds must not be negative, got %d", s.HTTPTimeoutSeconds))
	}

	return errors.Join(errs...)
}

// OutputDir returns the download directory for an album.
//
// Example:
//
//	s.DownloadsPath = "~/Pictures/{album}"
//	s.OutputDir("7215") // "~/Pictures/7215"
//
// An empty DownloadsPath means a directory named after the album in the
// working directory.
func (s *Settings) OutputDir(albumID string) string {
	if strings.TrimSpace(s.DownloadsPath) == "" {
		return albumID
	}
	return strings.ReplaceAll(s.DownloadsPath, AlbumPlaceholder, albumID)
}

// HTTPTimeout returns the HTTP client timeout.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// NameStyle returns the parsed file name style.
func (s *Settings) NameStyle() (ioutils.NameStyle, error) {
	return ioutils.ParseNameStyle(s.FileNameStyle)
}

// ToRunConfig converts settings to the download configuration of one album.
func (s *Settings) ToRunConfig(albumID string) (download.RunConfig, error) {
	strategy, err := download.ParseStrategy(s.Strategy)
	if err != nil {
		return download.RunConfig{}, err
	}

	return download.RunConfig{
		AlbumID:        albumID,
		OutputDir:      s.OutputDir(albumID),
		SizePreference: s.SizePreference,
		Strategy:       strategy,
		Workers:        s.Workers,
	}, nil
}
