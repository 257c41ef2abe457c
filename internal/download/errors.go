package download

import "fmt"

// ResolveError is returned for a photo whose sizes could not be resolved to
// a download URL: the size lookup failed or it returned no sizes.
type ResolveError struct {
	PhotoID string
	Err     error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve photo %s: %v", e.PhotoID, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// FetchError is returned when the bytes of a selected size could not be
// downloaded.
type FetchError struct {
	PhotoID string
	URL     string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch photo %s from %s: %v", e.PhotoID, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// WriteError is returned when downloaded bytes could not be saved.
type WriteError struct {
	PhotoID string
	Path    string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write photo %s to %s: %v", e.PhotoID, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
