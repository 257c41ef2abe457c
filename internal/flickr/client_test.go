package flickr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	fhttp "github.com/handiism/grabflickr/internal/http"
)

// newTestClient returns a client whose endpoint is served by handler. Every
// request is checked for a valid signature before handler sees it.
func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *Client {
	t.Helper()

	signer := NewSigner("test-key", "test-secret")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if got, want := r.PostForm.Get("api_sig"), signer.Signature(r.PostForm); got != want {
			t.Errorf("api_sig = %q, want %q", got, want)
		}
		if r.PostForm.Get("api_key") != "test-key" || r.PostForm.Get("format") != "json" {
			t.Errorf("unexpected base parameters: %v", r.PostForm)
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return NewClient(fhttp.NewClient(0), signer, Options{Endpoint: server.URL, PerPage: 2})
}

func TestClient_ListPhotos(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.PostForm.Get("method") != MethodGetPhotos {
			t.Errorf("method = %q", r.PostForm.Get("method"))
		}
		if r.PostForm.Get("photoset_id") != "set1" {
			t.Errorf("photoset_id = %q", r.PostForm.Get("photoset_id"))
		}
		if r.PostForm.Get("per_page") != "2" {
			t.Errorf("per_page = %q", r.PostForm.Get("per_page"))
		}

		switch r.PostForm.Get("page") {
		case "1":
			fmt.Fprint(w, `{"photoset":{"id":"set1","title":"Holiday","ownername":"carl","page":1,"pages":"2",
				"photo":[{"id":"1","title":"a"},{"id":"2","title":"b"}]},"stat":"ok"}`)
		case "2":
			fmt.Fprint(w, `{"photoset":{"id":"set1","title":"Holiday","page":"2","pages":2,
				"photo":[{"id":"3","title":"c"}]},"stat":"ok"}`)
		default:
			t.Errorf("unexpected page %q", r.PostForm.Get("page"))
		}
	})

	album, err := client.ListPhotos(context.Background(), "set1")
	if err != nil {
		t.Fatalf("ListPhotos() error = %v", err)
	}

	if album.Title != "Holiday" || album.OwnerName != "carl" {
		t.Errorf("album = %q by %q", album.Title, album.OwnerName)
	}
	if len(album.Photos) != 3 {
		t.Fatalf("got %d photos, want 3", len(album.Photos))
	}
	for i, want := range []string{"a", "b", "c"} {
		if album.Photos[i].Title != want || album.Photos[i].ID != strconv.Itoa(i+1) {
			t.Errorf("photo %d = %+v", i, album.Photos[i])
		}
	}
}

func TestClient_ListPhotosAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stat":"fail","code":1,"message":"Photoset not found"}`)
	})

	_, err := client.ListPhotos(context.Background(), "missing")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ListPhotos() error = %v, want *APIError", err)
	}
	if apiErr.Code != 1 || apiErr.Method != MethodGetPhotos {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestClient_ListPhotosMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":         `<html>oops</html>`,
		"missing photoset": `{"stat":"ok"}`,
		"wrong shape":      `{"stat":"ok","photoset":{"photo":{"id":"1"}}}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			})
			_, err := client.ListPhotos(context.Background(), "set1")
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("ListPhotos() error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestClient_ListPhotosRequiresID(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	if _, err := client.ListPhotos(context.Background(), ""); err == nil {
		t.Error("ListPhotos(\"\") should fail")
	}
	if calls.Load() != 0 {
		t.Errorf("made %d requests, want 0", calls.Load())
	}
}

func TestClient_GetSizes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.PostForm.Get("method") != MethodGetSizes || r.PostForm.Get("photo_id") != "42" {
			t.Errorf("unexpected request %v", r.PostForm)
		}
		fmt.Fprint(w, `{"sizes":{"candownload":1,"size":[
			{"label":"Square","width":75,"height":75,"source":"https://live.staticflickr.com/1/42_s.jpg"},
			{"label":"Broken","width":1,"height":1,"source":""},
			{"label":"Original","width":"4000","height":"3000","source":"https://live.staticflickr.com/1/42_o.png"}
		]},"stat":"ok"}`)
	})

	sizes, err := client.GetSizes(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetSizes() error = %v", err)
	}
	if len(sizes) != 2 {
		t.Fatalf("got %d sizes, want 2", len(sizes))
	}
	if sizes[1].Label != "Original" || sizes[1].Width != 4000 || sizes[1].Height != 3000 {
		t.Errorf("largest size = %+v", sizes[1])
	}
	if !strings.HasSuffix(sizes[0].Source, "_s.jpg") {
		t.Errorf("smallest size = %+v", sizes[0])
	}
}

func TestClient_GetSizesTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GetSizes(context.Background(), "42")

	var statusErr *fhttp.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("GetSizes() error = %v, want *StatusError 500", err)
	}
}
