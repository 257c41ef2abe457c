package model

// Album represents a Flickr photoset and the photos it contains.
//
// Album is produced once per run by the listing call and is never mutated
// afterwards. Photos keeps the order in which Flickr returned them.
//
// Example:
//
//	album, err := client.ListPhotos(ctx, "72157600000000000")
//	fmt.Printf("%s by %s: %d photos\n", album.Title, album.OwnerName, len(album.Photos))
type Album struct {
	// ID is the photoset id used to request the listing.
	ID string

	// Title is the photoset title, if Flickr reported one.
	Title string

	// OwnerName is the display name of the photoset owner.
	OwnerName string

	// Photos contains every photo in the photoset, in listing order.
	Photos []Photo
}

// Photo identifies a single photo inside an album.
//
// Photo is the unit the download engine works on: the ID is used to resolve
// the available sizes and the Title becomes the local file name.
type Photo struct {
	// ID is the Flickr photo id.
	ID string

	// Title is the photo title. It may be empty.
	Title string
}

// DisplayName returns the title, or the id for untitled photos.
func (p Photo) DisplayName() string {
	if p.Title == "" {
		return p.ID
	}
	return p.Title
}
