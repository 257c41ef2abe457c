// Package ioutils provides file system utilities for grabflickr.
//
// This package contains functions for:
//   - Preparing the output directory
//   - Writing downloaded photos atomically
//   - Deriving file names from photo titles
package ioutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"github.com/handiism/grabflickr/internal/model"
)

// ErrOutputPathConflict is returned when the output path exists but is not a directory.
var ErrOutputPathConflict = errors.New("output path exists and is not a directory")

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	runsOfSpace  = regexp.MustCompile(`\s+`)
	leadingDots  = regexp.MustCompile(`^\.+`)
)

// NameStyle controls how photo titles become file names.
type NameStyle int

const (
	// NameTitle keeps the title as-is, replacing only characters that are
	// invalid in file names.
	NameTitle NameStyle = iota

	// NameSlug turns the title into a lowercase ASCII slug.
	NameSlug
)

// ParseNameStyle parses "title" or "slug". An empty string means NameTitle.
func ParseNameStyle(s string) (NameStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "title":
		return NameTitle, nil
	case "slug":
		return NameSlug, nil
	default:
		return NameTitle, fmt.Errorf("unknown file name style %q", s)
	}
}

// String returns the configuration name of the style.
func (n NameStyle) String() string {
	if n == NameSlug {
		return "slug"
	}
	return "title"
}

// EnsureOutputDir makes sure path is a directory, creating it and all
// parents with mode 0755 when it does not exist.
//
// Returns ErrOutputPathConflict (wrapped with the path) if something other
// than a directory already lives at path. It reports whether the directory
// was created.
func EnsureOutputDir(path string) (created bool, err error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return false, fmt.Errorf("%s: %w", path, ErrOutputPathConflict)
		}
		return false, nil
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(path, 0755); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// WriteFileAtomic writes data to path so that readers either see the
// previous content or the complete new content.
//
// The bytes are written to a temporary file in the same directory, synced and
// then renamed over path. On any failure the temporary file is removed and
// path is left untouched. An existing file at path is replaced.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.part")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// FileName returns the base file name for a photo, extension excluded.
//
// Untitled photos, and titles that sanitize to nothing, use the photo id.
func FileName(photo model.Photo, style NameStyle) string {
	var name string
	switch style {
	case NameSlug:
		name = slug.Make(photo.Title)
	default:
		name = SanitizeFileName(photo.Title)
	}

	if name == "" {
		name = SanitizeFileName(photo.ID)
	}
	return name
}

// TargetPath returns dir/<name>.<ext> for a photo. When ext is empty the
// file has no extension.
//
// Two photos with the same title map to the same path; the later write wins.
func TargetPath(dir string, photo model.Photo, ext string, style NameStyle) string {
	name := FileName(photo, style)
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(dir, name)
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Leading and trailing dots → removed
//   - Multiple whitespace → single space
//   - Surrounding whitespace → removed
//
// Example:
//
//	SanitizeFileName("Beach: Day 1/2")  // Returns "Beach_ Day 1_2"
//	SanitizeFileName("..hidden...")     // Returns "hidden"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = runsOfSpace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	name = trailingDots.ReplaceAllString(name, "")
	name = leadingDots.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}
