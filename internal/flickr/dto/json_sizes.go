package dto

import "github.com/handiism/grabflickr/internal/model"

// SizesResponse is the response of flickr.photos.getSizes.
type SizesResponse struct {
	Status
	Sizes *JSONSizes `json:"sizes"`
}

// JSONSizes lists the renditions of a photo, smallest first.
type JSONSizes struct {
	CanDownload FlexInt    `json:"candownload"`
	Size        []JSONSize `json:"size"`
}

// JSONSize is a single rendition.
type JSONSize struct {
	Label  string  `json:"label"`
	Width  FlexInt `json:"width"`
	Height FlexInt `json:"height"`
	Source string  `json:"source"`
	URL    string  `json:"url"`
	Media  string  `json:"media"`
}

// ToSizes converts the renditions to model.Size values, keeping Flickr's
// smallest-to-largest order. Entries without a source URL are skipped.
func (js *JSONSizes) ToSizes() []model.Size {
	sizes := make([]model.Size, 0, len(js.Size))
	for _, s := range js.Size {
		if s.Source == "" {
			continue
		}
		sizes = append(sizes, model.Size{
			Label:  s.Label,
			Source: s.Source,
			Width:  int(s.Width),
			Height: int(s.Height),
		})
	}
	return sizes
}
