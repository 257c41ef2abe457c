package model

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

// ErrNoSizesAvailable is returned by SelectSize when a photo has no renditions.
var ErrNoSizesAvailable = errors.New("no sizes available")

// Size is one rendition of a photo.
//
// Flickr returns the sizes of a photo ordered from the smallest rendition
// (usually "Square") to the largest ("Original" when the owner allows it).
// The rank of a Size is its index in that slice.
type Size struct {
	// Label is Flickr's name for the rendition, e.g. "Large" or "Original".
	Label string

	// Source is the direct URL of the image bytes.
	Source string

	// Width and Height are the rendition dimensions in pixels.
	Width  int
	Height int
}

// Extension returns the file extension of the rendition without the dot.
//
// The extension is taken from the last segment of the URL path, so query
// strings and fragments never leak into file names:
//
//	Size{Source: "https://live.staticflickr.com/1/2_abc_o.png?x=1"}.Extension() // "png"
//
// An empty string is returned when the last segment has no extension.
func (s Size) Extension() string {
	p := s.Source
	if u, err := url.Parse(s.Source); err == nil {
		p = u.Path
	}

	base := path.Base(p)
	idx := strings.LastIndex(base, ".")
	if idx < 0 || idx == len(base)-1 {
		return ""
	}
	return base[idx+1:]
}

// SelectSize picks the rendition matching a size preference.
//
// The preference counts from the largest rendition: 1 selects the largest,
// 2 the second largest and so on. A preference larger than the number of
// available sizes is clamped to the smallest rendition rather than failing,
// and a preference below 1 is treated as 1.
//
// sizes must be ordered from smallest to largest, as returned by GetSizes.
//
// Example:
//
//	sizes := []Size{{Label: "Small"}, {Label: "Medium"}, {Label: "Original"}}
//	s, _ := SelectSize(sizes, 1) // Original
//	s, _ = SelectSize(sizes, 2)  // Medium
//	s, _ = SelectSize(sizes, 9)  // Small
func SelectSize(sizes []Size, preference int) (Size, error) {
	if len(sizes) == 0 {
		return Size{}, ErrNoSizesAvailable
	}

	effective := min(max(preference, 1), len(sizes))
	return sizes[len(sizes)-effective], nil
}
