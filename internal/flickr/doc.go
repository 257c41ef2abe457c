// Package flickr talks to the Flickr REST API.
//
// It covers the two calls grabflickr needs:
//   - flickr.photosets.getPhotos, to list the photos of an album
//   - flickr.photos.getSizes, to resolve a photo to its renditions
//
// Requests are signed POSTs built by Signer. Responses are decoded into the
// schemas in the dto subpackage; a "stat": "fail" answer becomes *APIError
// and a response of the wrong shape wraps ErrMalformedResponse.
//
// # Usage
//
//	signer := flickr.NewSigner(apiKey, apiSecret)
//	client := flickr.NewClient(http.NewClient(0), signer, flickr.Options{Logger: logger})
//
//	album, err := client.ListPhotos(ctx, photosetID)
//	if err != nil {
//	    return err
//	}
//	for _, photo := range album.Photos {
//	    sizes, err := client.GetSizes(ctx, photo.ID)
//	    // ...
//	}
package flickr
