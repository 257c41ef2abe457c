package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is used when NewClient is given a non-positive timeout.
const DefaultTimeout = 60 * time.Second

// maxPrealloc caps how much of a response's Content-Length is reserved up front.
const maxPrealloc = 64 << 20

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Status)
}

// Client wraps HTTP operations with grabflickr-specific configuration.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - Form POSTs for the Flickr REST API
//   - In-memory downloads with progress tracking
//
// Example usage:
//
//	client := NewClient(30 * time.Second)
//
//	// Call a REST method
//	body, err := client.PostForm(ctx, "https://api.flickr.com/services/rest/", form)
//
//	// Download a photo
//	data, err := client.DownloadBytes(ctx, photoURL, func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - the given request timeout (DefaultTimeout when timeout <= 0)
//   - "grabflickr" User-Agent header
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "grabflickr",
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// It is -1 when the server did not send one.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// PostForm sends form as an application/x-www-form-urlencoded POST body
// and returns the response body.
//
// Example:
//
//	form := url.Values{"method": {"flickr.test.echo"}}
//	body, err := client.PostForm(ctx, endpoint, form)
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, nil)
}

// DownloadBytes downloads a resource with a single GET and returns its
// bytes. onProgress may be nil.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK (a *StatusError)
//   - Reading the body fails
//
// The whole body is buffered in memory, so nothing reaches disk until the
// transfer has completed. Photo renditions are small enough for this.
//
// Example:
//
//	data, err := client.DownloadBytes(ctx, photoURL, nil)
func (c *Client) DownloadBytes(ctx context.Context, rawURL string, onProgress func(written, total int64)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	return c.do(req, onProgress)
}

func (c *Client) do(req *http.Request, onProgress func(written, total int64)) ([]byte, error) {
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	// Content-Length is only a sizing hint; a body larger than
	// maxPrealloc still grows the buffer as it arrives.
	var buf bytes.Buffer
	if resp.ContentLength > 0 && resp.ContentLength <= maxPrealloc {
		buf.Grow(int(resp.ContentLength))
	}

	var writer io.Writer = &buf
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   &buf,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
