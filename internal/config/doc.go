// Package config provides configuration management for grabflickr.
//
// This package handles:
//   - Loading settings from a JSON file with environment overrides
//   - Saving settings, including the API credentials
//   - Default configuration values
//   - Conversion to download.RunConfig for the download engine
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ./{album}
//	// Largest size, pool strategy with one worker per CPU
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // The file exists but could not be parsed
//	}
//
// Any setting can be overridden from the environment with the GRABFLICKR_
// prefix and the JSON key in upper case:
//
//	GRABFLICKR_STRATEGY=cooperative GRABFLICKR_SIZE_PREFERENCE=2 grabflickr -g 7215...
//
// # Saving Settings
//
//	settings.APIKey = "..."
//	err := settings.Save(config.DefaultPath())
//
// # Credentials
//
// PromptCredentials reads the API key and secret interactively; the secret
// is not echoed when stdin is a terminal.
package config
