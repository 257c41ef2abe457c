package ioutils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ImageInfo describes a downloaded image without decoding its pixels.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// String formats the info as "2048x1365 jpeg".
func (i ImageInfo) String() string {
	return fmt.Sprintf("%dx%d %s", i.Width, i.Height, i.Format)
}

// ImageService inspects photo bytes after download.
//
// Only the image header is read, so describing a large original is cheap.
// Flickr serves JPEG, PNG and GIF renditions; original uploads may also be
// BMP, TIFF or WebP, which are registered from golang.org/x/image.
//
// Example:
//
//	svc := NewImageService()
//	info, err := svc.Describe(data)
//	if err == nil {
//	    fmt.Println(info) // 2048x1365 jpeg
//	}
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Describe returns the format and dimensions encoded in data.
//
// An error is returned when the format is not recognised. Callers use the
// result for reporting only; an undecodable file is still a valid download.
func (s *ImageService) Describe(data []byte) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, err
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
