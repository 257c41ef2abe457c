package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// fakeFlickr serves the two REST methods and the photo bytes of a small
// album: photos 1..n titled "photo-<id>". Photos listed in missing answer
// 404 on download.
type fakeFlickr struct {
	server   *httptest.Server
	apiCalls atomic.Int32
}

func newFakeFlickr(t *testing.T, n int, missing ...string) *fakeFlickr {
	t.Helper()
	f := &fakeFlickr{}

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/", func(w http.ResponseWriter, r *http.Request) {
		f.apiCalls.Add(1)
		r.ParseForm()

		switch r.PostForm.Get("method") {
		case "flickr.photosets.getPhotos":
			if r.PostForm.Get("photoset_id") != "set1" {
				fmt.Fprint(w, `{"stat":"fail","code":1,"message":"Photoset not found"}`)
				return
			}
			var photos []map[string]string
			for i := 1; i <= n; i++ {
				photos = append(photos, map[string]string{"id": fmt.Sprint(i), "title": fmt.Sprintf("photo-%d", i)})
			}
			json.NewEncoder(w).Encode(map[string]any{
				"stat":     "ok",
				"photoset": map[string]any{"id": "set1", "title": "Trip", "page": 1, "pages": 1, "photo": photos},
			})
		case "flickr.photos.getSizes":
			id := r.PostForm.Get("photo_id")
			fmt.Fprintf(w, `{"stat":"ok","sizes":{"size":[
				{"label":"Small","width":240,"height":160,"source":"%[1]s/img/%[2]s_m.jpg"},
				{"label":"Original","width":4000,"height":3000,"source":"%[1]s/img/%[2]s_o.jpg"}]}}`,
				f.server.URL, id)
		default:
			http.Error(w, "unknown method", http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/img/")
		for _, id := range missing {
			if strings.HasPrefix(name, id+"_") {
				http.NotFound(w, r)
				return
			}
		}
		fmt.Fprint(w, "bytes of "+name)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func writeConfig(t *testing.T, apiURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	content := fmt.Sprintf(`{"api_key":"k","api_secret":"s","api_url":%q}`, apiURL+"/rest/")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_DownloadsAlbum(t *testing.T) {
	for _, strategy := range []string{"0", "pool", "2"} {
		t.Run(strategy, func(t *testing.T) {
			fake := newFakeFlickr(t, 3)
			out := filepath.Join(t.TempDir(), "out")

			code, stdout, stderr := runCLI(t, "-config", writeConfig(t, fake.server.URL), "-g", "set1", "-d", out, "-O", strategy)
			if code != exitOK {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr)
			}

			for i := 1; i <= 3; i++ {
				data, err := os.ReadFile(filepath.Join(out, fmt.Sprintf("photo-%d.jpg", i)))
				if err != nil {
					t.Fatalf("photo %d: %v", i, err)
				}
				if want := fmt.Sprintf("bytes of %d_o.jpg", i); string(data) != want {
					t.Errorf("photo %d = %q, want %q", i, data, want)
				}
			}
			if !strings.Contains(stdout, "0 photo(s) remaining") || !strings.Contains(stdout, "Downloaded 3/3 photos") {
				t.Errorf("stdout = %s", stdout)
			}
		})
	}
}

func TestRun_PositionalAlbumAndSize(t *testing.T) {
	fake := newFakeFlickr(t, 1)
	out := t.TempDir()

	code, _, stderr := runCLI(t, "-config", writeConfig(t, fake.server.URL), "-d", out, "-s", "2", "set1")
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}

	data, err := os.ReadFile(filepath.Join(out, "photo-1.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "bytes of 1_m.jpg" {
		t.Errorf("photo = %q, want the second largest size", data)
	}
}

func TestRun_PartialFailure(t *testing.T) {
	fake := newFakeFlickr(t, 5, "3")
	out := t.TempDir()

	code, stdout, _ := runCLI(t, "-config", writeConfig(t, fake.server.URL), "-g", "set1", "-d", out)
	if code != exitPartial {
		t.Fatalf("exit code = %d, want %d", code, exitPartial)
	}

	entries, _ := os.ReadDir(out)
	if len(entries) != 4 {
		t.Errorf("output has %d files, want 4", len(entries))
	}
	if !strings.Contains(stdout, "1 photo(s) failed") {
		t.Errorf("stdout = %s", stdout)
	}
}

func TestRun_OutputDirConflict(t *testing.T) {
	fake := newFakeFlickr(t, 2)
	out := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(out, nil, 0644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runCLI(t, "-config", writeConfig(t, fake.server.URL), "-g", "set1", "-d", out)
	if code != exitSetup {
		t.Fatalf("exit code = %d, want %d", code, exitSetup)
	}
	if fake.apiCalls.Load() != 0 {
		t.Errorf("made %d API calls, want 0", fake.apiCalls.Load())
	}
	if !strings.Contains(stderr, "not a directory") {
		t.Errorf("stderr = %s", stderr)
	}
}

func TestRun_UnknownAlbum(t *testing.T) {
	fake := newFakeFlickr(t, 1)

	code, _, stderr := runCLI(t, "-config", writeConfig(t, fake.server.URL), "-g", "nope", "-d", t.TempDir())
	if code != exitSetup {
		t.Fatalf("exit code = %d, want %d", code, exitSetup)
	}
	if !strings.Contains(stderr, "Photoset not found") {
		t.Errorf("stderr = %s", stderr)
	}
}

func TestRun_DryRun(t *testing.T) {
	fake := newFakeFlickr(t, 2)
	out := filepath.Join(t.TempDir(), "never")

	code, stdout, _ := runCLI(t, "-config", writeConfig(t, fake.server.URL), "-g", "set1", "-d", out, "-dry-run")
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "photo-2") {
		t.Errorf("stdout = %s", stdout)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("dry run created %s", out)
	}
}

func TestRun_InvalidFlags(t *testing.T) {
	fake := newFakeFlickr(t, 1)
	cfg := writeConfig(t, fake.server.URL)

	tests := [][]string{
		{"-config", cfg},
		{"-config", cfg, "-g", "set1", "-s", "12"},
		{"-config", cfg, "-g", "set1", "-O", "threads"},
		{"-config", cfg, "-g", "set1", "-w", "-2"},
	}
	for _, args := range tests {
		if code, _, _ := runCLI(t, args...); code != exitSetup {
			t.Errorf("run(%v) = %d, want %d", args, code, exitSetup)
		}
	}
	if fake.apiCalls.Load() != 0 {
		t.Errorf("made %d API calls, want 0", fake.apiCalls.Load())
	}
}

func TestRun_PromptsForMissingCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-config", path, "-u"}, strings.NewReader("key\nsecret\n"), &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var saved map[string]any
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatal(err)
	}
	if saved["api_key"] != "key" || saved["api_secret"] != "secret" {
		t.Errorf("saved config = %v", saved)
	}
}
