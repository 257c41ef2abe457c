// Package http provides the HTTP client used for Flickr API calls and photo
// downloads.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Form-encoded POSTs for signed REST calls
//   - In-memory downloads with progress tracking
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(60 * time.Second)
//
//	// Call the REST API
//	body, err := client.PostForm(ctx, endpoint, signedForm)
//
//	// Download photo bytes with a progress callback
//	data, err := client.DownloadBytes(ctx, photoURL, func(written, total int64) {
//	    fmt.Printf("%d/%d\n", written, total)
//	})
//
// Non-200 responses are reported as *StatusError.
package http
