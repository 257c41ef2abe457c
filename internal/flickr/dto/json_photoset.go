package dto

import "github.com/handiism/grabflickr/internal/model"

// PhotosetResponse is the response of flickr.photosets.getPhotos.
type PhotosetResponse struct {
	Status
	Photoset *JSONPhotoset `json:"photoset"`
}

// JSONPhotoset is one page of a photoset listing.
type JSONPhotoset struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Owner     string      `json:"owner"`
	OwnerName string      `json:"ownername"`
	Photos    []JSONPhoto `json:"photo"`
	Page      FlexInt     `json:"page"`
	Pages     FlexInt     `json:"pages"`
	PerPage   FlexInt     `json:"perpage"`
	Total     FlexInt     `json:"total"`
}

// JSONPhoto is a photo entry of a photoset listing.
type JSONPhoto struct {
	ID        string `json:"id"`
	Secret    string `json:"secret"`
	Server    string `json:"server"`
	Title     string `json:"title"`
	IsPrimary string `json:"isprimary"`
}

// ToPhoto converts JSONPhoto to a model.Photo.
func (jp JSONPhoto) ToPhoto() model.Photo {
	return model.Photo{ID: jp.ID, Title: jp.Title}
}
