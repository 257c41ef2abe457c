package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/grabflickr/internal/config"
	"github.com/handiism/grabflickr/internal/logging"
	"github.com/handiism/grabflickr/internal/tui"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "Path to config file")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		if !settings.HasCredentials() {
			fmt.Fprintln(os.Stderr, "Run `grabflickr -u` to enter your Flickr API key and secret.")
		}
		os.Exit(1)
	}

	// Log lines would corrupt the screen, so only a log file is used.
	logger := logging.Null()
	if settings.LogFile != "" {
		if l, err := logging.Setup(settings.LogFile, settings.LogLevel, nil); err == nil {
			logger = l
		}
	}

	if err := tui.Run(settings, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
