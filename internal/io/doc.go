// Package ioutils provides file system and image utilities.
//
// This package contains functions for:
//   - Output directory preparation
//   - Atomic file writing
//   - File name derivation and sanitization
//   - Reading image dimensions of downloaded photos
//
// # Output Directory
//
//	created, err := ioutils.EnsureOutputDir("/photos/72157600000000000")
//	if errors.Is(err, ioutils.ErrOutputPathConflict) {
//	    // a regular file is in the way
//	}
//
// # Writing Photos
//
// WriteFileAtomic never leaves a truncated file behind:
//
//	path := ioutils.TargetPath(dir, photo, size.Extension(), ioutils.NameTitle)
//	err := ioutils.WriteFileAtomic(path, data)
//
// # File Names
//
//	ioutils.SanitizeFileName("Beach: Day 1/2") // "Beach_ Day 1_2"
//	ioutils.FileName(photo, ioutils.NameSlug)  // "beach-day-1-2"
//
// # Image Info
//
//	info, _ := ioutils.NewImageService().Describe(data)
//	fmt.Println(info.Width, info.Height, info.Format)
package ioutils
