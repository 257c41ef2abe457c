// Package download provides the batch download engine that saves the photos
// of a Flickr album to disk.
//
// # Manager
//
// The Manager runs one batch per call to Run. For every photo it:
//
//  1. Resolves the available sizes
//  2. Selects a size from the configured preference (1 is the largest)
//  3. Downloads the bytes with a single GET
//  4. Writes them atomically to <output dir>/<title>.<ext>
//  5. Decrements the shared remaining counter and reports progress
//
// # Basic Usage
//
//	manager := download.NewManager(flickrClient, httpClient, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	}, download.Options{})
//
//	result, err := manager.Run(ctx, album.Photos, download.RunConfig{
//	    OutputDir:      album.ID,
//	    SizePreference: 1,
//	    Strategy:       download.Cooperative,
//	})
//	if err != nil {
//	    log.Fatal(err) // the output directory could not be used
//	}
//	for _, e := range result.Errors {
//	    fmt.Printf("%s failed: %v\n", e.PhotoID, e.Err)
//	}
//
// # Strategies
//
// The Strategy in RunConfig selects the Executor:
//   - Sequential: photos are downloaded one by one in listing order
//   - Pool: photos are downloaded by a bounded number of workers
//   - Cooperative: every photo gets a goroutine, but only one of them runs at
//     a time outside network and disk calls
//
// All strategies produce the same files and the same final counter value.
// None of them stops early because a photo failed.
//
// # Errors
//
// Failed photos are reported as *ResolveError, *FetchError or *WriteError in
// BatchResult.Errors. Failures are never retried.
package download
