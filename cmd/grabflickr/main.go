package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/grabflickr/internal/config"
	"github.com/handiism/grabflickr/internal/download"
	"github.com/handiism/grabflickr/internal/flickr"
	"github.com/handiism/grabflickr/internal/http"
	ioutils "github.com/handiism/grabflickr/internal/io"
	"github.com/handiism/grabflickr/internal/logging"
)

// Exit codes
const (
	exitOK          = 0
	exitSetup       = 1
	exitPartial     = 3
	exitInterrupted = 130
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0084"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupts
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options are the command line flags.
type options struct {
	albumID     string
	size        int
	outputDir   string
	strategy    string
	workers     int
	update      bool
	configPath  string
	nameStyle   string
	verbose     bool
	debug       bool
	dryRun      bool
	explicitSet map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("grabflickr", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{explicitSet: map[string]bool{}}
	fs.StringVar(&opts.albumID, "g", "", "Flickr album (photoset) id to download")
	fs.IntVar(&opts.size, "s", 1, "Size preference: 1 = largest, 2 = second largest, ... up to 9")
	fs.StringVar(&opts.outputDir, "d", "", "Output directory (default: the album id)")
	fs.StringVar(&opts.strategy, "O", "", "Download strategy: 0/sequential, 1/pool, 2/cooperative")
	fs.IntVar(&opts.workers, "w", 0, "Concurrent downloads (0 = strategy default)")
	fs.BoolVar(&opts.update, "u", false, "Enter the Flickr API key and secret again")
	fs.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to config file")
	fs.StringVar(&opts.nameStyle, "name-style", "", "File names from titles: title or slug")
	fs.BoolVar(&opts.verbose, "verbose", false, "Show verbose output")
	fs.BoolVar(&opts.debug, "debug", false, "Log API responses at debug level")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "List the album without downloading")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "grabflickr - Download the photos of a Flickr album")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  grabflickr -g <album id> [options]")
		fmt.Fprintln(stderr, "  grabflickr <album id> [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "For interactive mode, use: grabflickr-tui")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		opts.explicitSet[f.Name] = true
	})

	if opts.albumID == "" && fs.NArg() > 0 {
		opts.albumID = fs.Arg(0)
	}
	if opts.albumID == "" && !opts.update {
		fs.Usage()
		return nil, errors.New("an album id is required")
	}

	return opts, nil
}

// apply overrides settings with the flags given on the command line.
func (o *options) apply(settings *config.Settings) {
	if o.explicitSet["s"] {
		settings.SizePreference = o.size
	}
	if o.outputDir != "" {
		settings.DownloadsPath = o.outputDir
	}
	if o.strategy != "" {
		settings.Strategy = o.strategy
	}
	if o.explicitSet["w"] {
		settings.Workers = o.workers
	}
	if o.nameStyle != "" {
		settings.FileNameStyle = o.nameStyle
	}
	if o.debug {
		settings.LogLevel = "DEBUG"
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitSetup
	}

	// Load config
	settings, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitSetup
	}

	if opts.update || !settings.HasCredentials() {
		if err := settings.PromptCredentials(stdin, stdout); err != nil {
			fmt.Fprintf(stderr, "Error reading credentials: %v\n", err)
			return exitSetup
		}
		if err := settings.Save(opts.configPath); err != nil {
			fmt.Fprintf(stderr, "Error saving config: %v\n", err)
			return exitSetup
		}
		fmt.Fprintln(stdout, dimStyle.Render("Credentials saved to "+opts.configPath))
		if opts.albumID == "" {
			return exitOK
		}
	}

	opts.apply(settings)
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return exitSetup
	}

	logger, err := logging.Setup(settings.LogFile, settings.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error setting up logging: %v\n", err)
		logger = logging.Null()
	}
	slog.SetDefault(logger)

	runCfg, err := settings.ToRunConfig(opts.albumID)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return exitSetup
	}
	nameStyle, err := settings.NameStyle()
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return exitSetup
	}

	fmt.Fprintln(stdout, headerStyle.Render("📷 grabflickr"))
	fmt.Fprintln(stdout, dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Fprintln(stdout)

	// Nothing touches the network before the output directory is usable.
	if !opts.dryRun {
		if _, err := ioutils.EnsureOutputDir(runCfg.OutputDir); err != nil {
			fmt.Fprintf(stderr, "Error preparing output directory: %v\n", err)
			return exitSetup
		}
	}

	httpClient := http.NewClient(settings.HTTPTimeout())
	client := flickr.NewClient(httpClient, flickr.NewSigner(settings.APIKey, settings.APISecret), flickr.Options{
		Endpoint: settings.APIURL,
		Logger:   logger,
	})

	album, err := client.ListPhotos(ctx, opts.albumID)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(stdout, "\nDownload cancelled.")
			return exitInterrupted
		}
		fmt.Fprintf(stderr, "Error listing album %s: %v\n", opts.albumID, err)
		return exitSetup
	}

	printEvent(stdout, opts.verbose, download.ProgressEvent{
		Message: fmt.Sprintf("Found album: %s (%d photos)", albumLabel(album.Title, album.OwnerName), len(album.Photos)),
		Level:   download.LevelInfo,
	})

	if opts.dryRun {
		for _, photo := range album.Photos {
			fmt.Fprintf(stdout, "   %s  %s\n", photo.ID, photo.DisplayName())
		}
		fmt.Fprintln(stdout, "\n[Dry run - not downloading]")
		return exitOK
	}

	manager := download.NewManager(client, httpClient, func(event download.ProgressEvent) {
		printEvent(stdout, opts.verbose, event)
	}, download.Options{NameStyle: nameStyle, Logger: logger})

	fmt.Fprintln(stdout)
	result, err := manager.Run(ctx, album.Photos, runCfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitSetup
	}

	printSummary(stdout, result)

	switch {
	case ctx.Err() != nil:
		fmt.Fprintln(stdout, "\nDownload cancelled.")
		return exitInterrupted
	case result.Failed():
		return exitPartial
	default:
		return exitOK
	}
}

func albumLabel(title, owner string) string {
	switch {
	case title == "":
		return "untitled"
	case owner == "":
		return title
	default:
		return title + " by " + owner
	}
}

func printEvent(w io.Writer, verbose bool, event download.ProgressEvent) {
	if event.Level == download.LevelVerbose && !verbose {
		return
	}

	var line string
	switch event.Level {
	case download.LevelError:
		line = errorStyle.Render("❌ " + event.Message)
	case download.LevelWarning:
		line = warningStyle.Render("⚠️  " + event.Message)
	case download.LevelSuccess:
		line = successStyle.Render("✅ " + event.Message)
	case download.LevelInfo:
		line = infoStyle.Render("ℹ️  " + event.Message)
	default:
		line = dimStyle.Render("   " + event.Message)
	}
	fmt.Fprintln(w, line)
}

func printSummary(w io.Writer, result *download.BatchResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Fprintf(w, "✨ Downloaded %d/%d photos (%.2f MB) in %s\n",
		result.Succeeded, result.Total, float64(result.Bytes)/1024/1024, result.Elapsed.Round(time.Millisecond))

	if result.Failed() {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("   %d photo(s) failed:", len(result.Errors))))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "   - %s %s: %v\n", e.PhotoID, e.Title, e.Err)
		}
	}
}
