// Package model defines the core data structures used throughout
// grabflickr.
//
// # Album and Photo
//
// Album is the result of listing a Flickr photoset. Each Photo carries the id
// used to resolve its sizes and the title used to name the local file:
//
//	album, _ := client.ListPhotos(ctx, photosetID)
//	for _, photo := range album.Photos {
//	    fmt.Println(photo.ID, photo.DisplayName())
//	}
//
// # Sizes
//
// Size describes one rendition of a photo. SelectSize maps a size preference
// (1 = largest) onto the list returned by Flickr:
//
//	size, err := model.SelectSize(sizes, 2) // second largest
//	if errors.Is(err, model.ErrNoSizesAvailable) {
//	    // the photo has no renditions
//	}
//	fmt.Println(size.Source, size.Extension())
package model
