package flickr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/handiism/grabflickr/internal/flickr/dto"
	"github.com/handiism/grabflickr/internal/model"
)

const (
	// DefaultEndpoint is the Flickr REST endpoint.
	DefaultEndpoint = "https://api.flickr.com/services/rest/"

	// DefaultPerPage is the largest page size flickr.photosets.getPhotos accepts.
	DefaultPerPage = 500
)

// REST methods used by the client.
const (
	MethodGetPhotos = "flickr.photosets.getPhotos"
	MethodGetSizes  = "flickr.photos.getSizes"
)

// Transport sends a form-encoded POST and returns the response body.
// *http.Client from internal/http implements it.
type Transport interface {
	PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error)
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Endpoint string
	PerPage  int
	Logger   *slog.Logger
}

// Client is the album client: it lists the photos of a photoset and
// resolves a photo to its available sizes.
//
// Example usage:
//
//	client := flickr.NewClient(http.NewClient(0), flickr.NewSigner(key, secret), flickr.Options{})
//
//	album, err := client.ListPhotos(ctx, "72157600000000000")
//	sizes, err := client.GetSizes(ctx, album.Photos[0].ID)
type Client struct {
	transport Transport
	signer    *Signer
	endpoint  string
	perPage   int
	logger    *slog.Logger
}

// NewClient creates a Client.
func NewClient(transport Transport, signer *Signer, opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.PerPage <= 0 || opts.PerPage > DefaultPerPage {
		opts.PerPage = DefaultPerPage
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		transport: transport,
		signer:    signer,
		endpoint:  opts.Endpoint,
		perPage:   opts.PerPage,
		logger:    opts.Logger,
	}
}

// ListPhotos returns the photoset with every photo it contains.
//
// Large photosets are fetched page by page until the last page reported by
// Flickr. Any failure is returned as-is: a partial listing is never returned.
func (c *Client) ListPhotos(ctx context.Context, photosetID string) (*model.Album, error) {
	if photosetID == "" {
		return nil, fmt.Errorf("list photos: photoset id is required")
	}

	album := &model.Album{ID: photosetID}
	for page := 1; ; page++ {
		var resp dto.PhotosetResponse
		err := c.call(ctx, MethodGetPhotos, map[string]string{
			"photoset_id": photosetID,
			"page":        strconv.Itoa(page),
			"per_page":    strconv.Itoa(c.perPage),
		}, &resp)
		if err != nil {
			return nil, fmt.Errorf("list photos of %s: %w", photosetID, err)
		}
		if resp.Photoset == nil {
			return nil, fmt.Errorf("list photos of %s: %w: missing photoset", photosetID, ErrMalformedResponse)
		}

		set := resp.Photoset
		if page == 1 {
			album.Title = set.Title
			album.OwnerName = set.OwnerName
		}
		for _, jp := range set.Photos {
			album.Photos = append(album.Photos, jp.ToPhoto())
		}

		c.logger.Debug("listed photoset page",
			"photoset", photosetID, "page", page, "pages", int(set.Pages), "photos", len(set.Photos))

		if len(set.Photos) == 0 || page >= int(set.Pages) {
			break
		}
	}

	return album, nil
}

// GetSizes returns the renditions of a photo ordered from smallest to largest.
func (c *Client) GetSizes(ctx context.Context, photoID string) ([]model.Size, error) {
	var resp dto.SizesResponse
	if err := c.call(ctx, MethodGetSizes, map[string]string{"photo_id": photoID}, &resp); err != nil {
		return nil, fmt.Errorf("get sizes of %s: %w", photoID, err)
	}
	if resp.Sizes == nil {
		return nil, fmt.Errorf("get sizes of %s: %w: missing sizes", photoID, ErrMalformedResponse)
	}
	return resp.Sizes.ToSizes(), nil
}

// call performs one signed request and decodes the JSON answer into out.
func (c *Client) call(ctx context.Context, method string, params map[string]string, out any) error {
	form := c.signer.Sign(method, params)

	body, err := c.transport.PostForm(ctx, c.endpoint, form)
	if err != nil {
		return err
	}
	c.logger.Debug("flickr response", "method", method, "bytes", len(body), "body", string(body))

	var status dto.Status
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !status.OK() {
		return &APIError{Method: method, Code: status.Code, Message: status.Message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
