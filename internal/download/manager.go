package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	ioutils "github.com/handiism/grabflickr/internal/io"
	"github.com/handiism/grabflickr/internal/model"
	"github.com/handiism/grabflickr/internal/progress"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// SizeResolver lists the renditions of a photo, smallest first.
// *flickr.Client implements it.
type SizeResolver interface {
	GetSizes(ctx context.Context, photoID string) ([]model.Size, error)
}

// Fetcher downloads the bytes behind a URL with a single request.
// *http.Client implements it.
type Fetcher interface {
	DownloadBytes(ctx context.Context, rawURL string, onProgress func(written, total int64)) ([]byte, error)
}

// RunConfig is the immutable configuration of one batch.
type RunConfig struct {
	// AlbumID is only used for logging.
	AlbumID string

	// OutputDir receives one file per photo. It is created when missing.
	OutputDir string

	// SizePreference picks the rendition: 1 is the largest.
	SizePreference int

	Strategy Strategy

	// Workers bounds concurrency; see Strategy.Executor.
	Workers int
}

// TaskResult is the outcome of downloading one photo.
type TaskResult struct {
	Photo model.Photo

	// Path is the written file. Empty when Err is set.
	Path string

	// Bytes is the size of the written file.
	Bytes int64

	// Remaining is the counter value observed right after this photo was
	// counted as done.
	Remaining int

	Err error
}

// PhotoError names a photo that failed to download.
type PhotoError struct {
	PhotoID string
	Title   string
	Err     error
}

// BatchResult summarises a finished run.
type BatchResult struct {
	RunID     string
	Total     int
	Succeeded int

	// Remaining is the final counter value: Total minus successful photos.
	Remaining int
	Bytes     int64
	Elapsed   time.Duration

	// Results holds one entry per input photo, in input order.
	Results []TaskResult

	// Errors lists the failed photos in input order.
	Errors []PhotoError
}

// Failed reports whether at least one photo failed.
func (b *BatchResult) Failed() bool {
	return len(b.Errors) > 0
}

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	NameStyle ioutils.NameStyle
	Logger    *slog.Logger
	Images    *ioutils.ImageService
}

// Manager downloads the photos of an album.
//
// Example usage:
//
//	manager := download.NewManager(flickrClient, httpClient, func(e download.ProgressEvent) {
//	    fmt.Println(e.Message)
//	}, download.Options{})
//
//	result, err := manager.Run(ctx, album.Photos, download.RunConfig{
//	    OutputDir:      "holiday",
//	    SizePreference: 1,
//	    Strategy:       download.Pool,
//	})
//
// A Manager runs one batch at a time.
type Manager struct {
	resolver  SizeResolver
	fetcher   Fetcher
	images    *ioutils.ImageService
	nameStyle ioutils.NameStyle
	logger    *slog.Logger

	counter       atomic.Pointer[progress.Counter]
	receivedBytes atomic.Int64

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
func NewManager(resolver SizeResolver, fetcher Fetcher, onProgress func(ProgressEvent), opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Images == nil {
		opts.Images = ioutils.NewImageService()
	}

	return &Manager{
		resolver:   resolver,
		fetcher:    fetcher,
		images:     opts.Images,
		nameStyle:  opts.NameStyle,
		logger:     opts.Logger,
		onProgress: onProgress,
	}
}

// Run downloads photos into cfg.OutputDir using cfg.Strategy.
//
// The output directory is checked before anything else: when it cannot be
// used Run returns an error without making a single network call. After
// that, every photo is attempted exactly once and failures are collected in
// the BatchResult rather than returned. Cancelling ctx makes photos that have
// not started yet fail with the context error.
func (m *Manager) Run(ctx context.Context, photos []model.Photo, cfg RunConfig) (*BatchResult, error) {
	if cfg.OutputDir == "" {
		return nil, errors.New("output directory is required")
	}
	created, err := ioutils.EnsureOutputDir(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}

	executor, err := NewExecutor(cfg.Strategy, cfg.Workers)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := m.logger.With("run", runID, "album", cfg.AlbumID, "strategy", cfg.Strategy.String())

	if created {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Created directory %s", cfg.OutputDir), Level: LevelVerbose})
	}

	counter := progress.NewCounter(len(photos))
	m.counter.Store(counter)
	m.receivedBytes.Store(0)

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloading %d photo(s) to %s (%s)", len(photos), cfg.OutputDir, cfg.Strategy),
		Level:   LevelInfo,
	})
	logger.Info("run started", "photos", len(photos), "output", cfg.OutputDir,
		"size_preference", cfg.SizePreference, "workers", cfg.Workers)

	results := make([]TaskResult, len(photos))
	jobs := make([]Job, len(photos))
	for i, photo := range photos {
		jobs[i] = func(ctx context.Context, gate Gate) {
			results[i] = m.runTask(ctx, photo, cfg, gate, counter, logger)
		}
	}

	start := time.Now()
	executor.Execute(ctx, jobs)

	batch := &BatchResult{
		RunID:     runID,
		Total:     len(photos),
		Remaining: counter.Remaining(),
		Elapsed:   time.Since(start),
		Results:   results,
	}
	for _, r := range results {
		if r.Err != nil {
			batch.Errors = append(batch.Errors, PhotoError{PhotoID: r.Photo.ID, Title: r.Photo.Title, Err: r.Err})
			continue
		}
		batch.Succeeded++
		batch.Bytes += r.Bytes
	}

	logger.Info("run finished", "succeeded", batch.Succeeded, "failed", len(batch.Errors),
		"remaining", batch.Remaining, "bytes", batch.Bytes, "elapsed", batch.Elapsed)

	return batch, nil
}

// Progress returns the counter state of the current or last run and the
// number of bytes received so far. Safe to call while Run is executing.
func (m *Manager) Progress() (remaining, total int, receivedBytes int64) {
	c := m.counter.Load()
	if c == nil {
		return 0, 0, 0
	}
	return c.Remaining(), c.Total(), m.receivedBytes.Load()
}

// runTask downloads a single photo: resolve its sizes, pick one, fetch it,
// write it and count it as done. Blocking calls go through gate.
func (m *Manager) runTask(ctx context.Context, photo model.Photo, cfg RunConfig, gate Gate,
	counter *progress.Counter, logger *slog.Logger) (result TaskResult) {

	result.Photo = photo
	defer func() {
		if result.Err != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Error downloading %s (%s): %v", photo.DisplayName(), photo.ID, result.Err),
				Level:   LevelError,
			})
			logger.Warn("photo failed", "photo", photo.ID, "error", result.Err)
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	var sizes []model.Size
	err := gate.Do(func() error {
		var err error
		sizes, err = m.resolver.GetSizes(ctx, photo.ID)
		return err
	})
	if err != nil {
		result.Err = &ResolveError{PhotoID: photo.ID, Err: err}
		return result
	}

	size, err := model.SelectSize(sizes, cfg.SizePreference)
	if err != nil {
		result.Err = &ResolveError{PhotoID: photo.ID, Err: err}
		return result
	}

	path := ioutils.TargetPath(cfg.OutputDir, photo, size.Extension(), m.nameStyle)
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Fetching %s (%s, %s)", photo.DisplayName(), photo.ID, size.Label),
		Level:   LevelVerbose,
	})
	logger.Debug("selected size", "photo", photo.ID, "label", size.Label, "url", size.Source, "path", path)

	var data []byte
	var seen int64
	err = gate.Do(func() error {
		var err error
		data, err = m.fetcher.DownloadBytes(ctx, size.Source, func(written, total int64) {
			m.receivedBytes.Add(written - seen)
			seen = written
		})
		return err
	})
	if err != nil {
		result.Err = &FetchError{PhotoID: photo.ID, URL: size.Source, Err: err}
		return result
	}

	if err := gate.Do(func() error { return ioutils.WriteFileAtomic(path, data) }); err != nil {
		result.Err = &WriteError{PhotoID: photo.ID, Path: path, Err: err}
		return result
	}

	remaining, ok := counter.Decrement()
	if !ok {
		logger.Warn("progress counter already drained", "photo", photo.ID)
	}

	result.Path = path
	result.Bytes = int64(len(data))
	result.Remaining = remaining

	if info, err := m.images.Describe(data); err == nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %s", filepath.Base(path), info), Level: LevelVerbose})
	} else {
		logger.Debug("could not decode image header", "photo", photo.ID, "error", err)
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloaded %s (%s), %d photo(s) remaining", filepath.Base(path), photo.ID, remaining),
		Level:   LevelSuccess,
	})
	return result
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
