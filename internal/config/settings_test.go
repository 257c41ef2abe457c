package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/handiism/grabflickr/internal/download"
)

func validSettings() *Settings {
	s := DefaultSettings()
	s.APIKey = "key"
	s.APISecret = "secret"
	return s
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultSettings()
	if *s != *want {
		t.Errorf("Load() = %+v, want %+v", s, want)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"api_key": "abc", "api_secret": "def", "strategy": "cooperative", "size_preference": 3}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.APIKey != "abc" || s.APISecret != "def" {
		t.Errorf("credentials = %q/%q", s.APIKey, s.APISecret)
	}
	if s.Strategy != "cooperative" || s.SizePreference != 3 {
		t.Errorf("strategy = %q, size = %d", s.Strategy, s.SizePreference)
	}
	if s.HTTPTimeoutSeconds != 60 || s.DownloadsPath != AlbumPlaceholder {
		t.Errorf("defaults not kept: %+v", s)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"strategy": "pool", "workers": 2}`), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRABFLICKR_STRATEGY", "sequential")
	t.Setenv("GRABFLICKR_WORKERS", "6")
	t.Setenv("GRABFLICKR_API_KEY", "from-env")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Strategy != "sequential" || s.Workers != 6 || s.APIKey != "from-env" {
		t.Errorf("env overrides not applied: %+v", s)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() of invalid JSON should fail")
	}
}

func TestSettings_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	s := validSettings()
	s.FileNameStyle = "slug"
	s.Workers = 4

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *s {
		t.Errorf("Load() = %+v, want %+v", loaded, s)
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr bool
	}{
		{"valid", func(s *Settings) {}, false},
		{"numeric strategy", func(s *Settings) { s.Strategy = "2" }, false},
		{"missing key", func(s *Settings) { s.APIKey = "" }, true},
		{"missing secret", func(s *Settings) { s.APISecret = " " }, true},
		{"size too small", func(s *Settings) { s.SizePreference = 0 }, true},
		{"size too large", func(s *Settings) { s.SizePreference = 10 }, true},
		{"unknown strategy", func(s *Settings) { s.Strategy = "threads" }, true},
		{"negative workers", func(s *Settings) { s.Workers = -1 }, true},
		{"unknown name style", func(s *Settings) { s.FileNameStyle = "camel" }, true},
		{"negative timeout", func(s *Settings) { s.HTTPTimeoutSeconds = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.modify(s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	s := DefaultSettings()
	if err := s.Validate(); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Validate() of defaults = %v, want ErrMissingCredentials", err)
	}
}

func TestSettings_OutputDir(t *testing.T) {
	tests := []struct {
		downloadsPath string
		want          string
	}{
		{"{album}", "123"},
		{"", "123"},
		{"/photos/{album}", "/photos/123"},
		{"/photos/flat", "/photos/flat"},
	}

	for _, tt := range tests {
		s := &Settings{DownloadsPath: tt.downloadsPath}
		if got := s.OutputDir("123"); got != tt.want {
			t.Errorf("OutputDir() with %q = %q, want %q", tt.downloadsPath, got, tt.want)
		}
	}
}

func TestSettings_ToRunConfig(t *testing.T) {
	s := validSettings()
	s.Strategy = "cooperative"
	s.SizePreference = 4
	s.Workers = 3
	s.DownloadsPath = "out/{album}"

	cfg, err := s.ToRunConfig("99")
	if err != nil {
		t.Fatalf("ToRunConfig() error = %v", err)
	}

	want := download.RunConfig{
		AlbumID:        "99",
		OutputDir:      "out/99",
		SizePreference: 4,
		Strategy:       download.Cooperative,
		Workers:        3,
	}
	if cfg != want {
		t.Errorf("ToRunConfig() = %+v, want %+v", cfg, want)
	}
	if s.HTTPTimeout() != 60*time.Second {
		t.Errorf("HTTPTimeout() = %v", s.HTTPTimeout())
	}
}

func TestSettings_PromptCredentials(t *testing.T) {
	s := DefaultSettings()
	var out bytes.Buffer

	if err := s.PromptCredentials(strings.NewReader("my-key\nmy-secret\n"), &out); err != nil {
		t.Fatalf("PromptCredentials() error = %v", err)
	}
	if s.APIKey != "my-key" || s.APISecret != "my-secret" {
		t.Errorf("credentials = %q/%q", s.APIKey, s.APISecret)
	}
	if !strings.Contains(out.String(), "API key") || !strings.Contains(out.String(), "API secret") {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestSettings_PromptCredentialsKeepsExisting(t *testing.T) {
	s := validSettings()

	if err := s.PromptCredentials(strings.NewReader("new-key\n\n"), &bytes.Buffer{}); err != nil {
		t.Fatalf("PromptCredentials() error = %v", err)
	}
	if s.APIKey != "new-key" || s.APISecret != "secret" {
		t.Errorf("credentials = %q/%q", s.APIKey, s.APISecret)
	}
}

func TestSettings_PromptCredentialsEOF(t *testing.T) {
	s := DefaultSettings()
	if err := s.PromptCredentials(strings.NewReader("only-key\n"), &bytes.Buffer{}); err == nil {
		t.Error("PromptCredentials() without a secret should fail")
	}
}
