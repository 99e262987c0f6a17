// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want string
	}{
		{"https://example.com/a.ogg", "https"},
		{"HTTP://example.com/a.ogg", "http"},
		{"file:///tmp/a.ogg", "file"},
		{"/tmp/a.ogg", "file"},
		{"music/a.ogg", "file"},
		{`C:\music\a.ogg`, "file"},
		{"ftp://example.com/a.ogg", "ftp"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			if got := Scheme(tt.id); got != tt.want {
				t.Errorf("Scheme(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	if got := Path("file:///tmp/a.ogg"); got != "/tmp/a.ogg" {
		t.Errorf("Path() = %q, want %q", got, "/tmp/a.ogg")
	}
	if got := Path("music/a.ogg"); got != "music/a.ogg" {
		t.Errorf("Path() = %q, want %q", got, "music/a.ogg")
	}
}

func TestHTTP_Fetch(t *testing.T) {
	t.Parallel()

	body := []byte("OggS payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); ua != "oggproc-test" {
			t.Errorf("User-Agent = %q, want %q", ua, "oggproc-test")
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	got, err := NewHTTP(Options{Timeout: 5 * time.Second, UserAgent: "oggproc-test"}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("Fetch() = %q, want %q", got, body)
	}
}

func TestHTTP_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		default:
			_, _ = w.Write(make([]byte, 64))
		}
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name    string
		id      string
		max     int64
		wantErr error
	}{
		{"not found", srv.URL + "/missing", 0, ErrStatus},
		{"too large", srv.URL + "/big", 16, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewHTTP(Options{MaxBytes: tt.max}).Fetch(context.Background(), tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.wantErr)
			}

			var fe *Error
			if !errors.As(err, &fe) || fe.ID != tt.id {
				t.Errorf("Fetch() error = %#v, want *Error for %q", err, tt.id)
			}
		})
	}
}

func TestHTTP_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewHTTP(Options{}).Fetch(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want %v", err, context.Canceled)
	}
}

func TestFile_Fetch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.ogg")
	if err := os.WriteFile(path, []byte("OggS"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{path, "file://" + filepath.ToSlash(path)} {
		got, err := (&File{}).Fetch(context.Background(), id)
		if err != nil {
			t.Fatalf("Fetch(%q) error = %v", id, err)
		}
		if string(got) != "OggS" {
			t.Errorf("Fetch(%q) = %q, want %q", id, got, "OggS")
		}
	}
}

func TestFile_Missing(t *testing.T) {
	t.Parallel()

	id := filepath.Join(t.TempDir(), "nope.ogg")
	_, err := (&File{}).Fetch(context.Background(), id)

	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Fetch() error = %v, want %v", err, fs.ErrNotExist)
	}
}

func TestRegistry_Dispatch(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("mem", FetcherFunc(func(_ context.Context, id string) ([]byte, error) {
		return []byte(id), nil
	}))

	got, err := r.Fetch(context.Background(), "mem://song")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got) != "mem://song" {
		t.Errorf("Fetch() = %q, want %q", got, "mem://song")
	}
}

func TestRegistry_UnsupportedScheme(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().Fetch(context.Background(), "gopher://x")
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("Fetch() error = %v, want %v", err, ErrUnsupportedScheme)
	}
}

func TestRegistry_WrapsPlainErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := NewRegistry()
	r.Register("mem", FetcherFunc(func(context.Context, string) ([]byte, error) { return nil, boom }))

	_, err := r.Fetch(context.Background(), "mem://x")

	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("Fetch() error = %T, want *Error", err)
	}
	if fe.ID != "mem://x" || !errors.Is(err, boom) {
		t.Errorf("Fetch() error = %v, want *Error{mem://x, boom}", err)
	}
}

func TestNewDefault_Schemes(t *testing.T) {
	t.Parallel()

	want := []string{"file", "http", "https"}
	if got := NewDefault(Options{}).Schemes(); !slices.Equal(got, want) {
		t.Errorf("Schemes() = %v, want %v", got, want)
	}
}

func TestNewRemote_NoLocalFiles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.ogg")
	if err := os.WriteFile(path, []byte("OggS"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewRemote(Options{})
	if got, want := r.Schemes(), []string{"http", "https"}; !slices.Equal(got, want) {
		t.Errorf("Schemes() = %v, want %v", got, want)
	}

	for _, id := range []string{path, "file://" + filepath.ToSlash(path)} {
		if _, err := r.Fetch(context.Background(), id); !errors.Is(err, ErrUnsupportedScheme) {
			t.Errorf("Fetch(%q) error = %v, want %v", id, err, ErrUnsupportedScheme)
		}
	}
}

func TestHTTP_AllowedHosts(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "http://localhost:1/elsewhere.ogg", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte("OggS"))
	}))
	defer srv.Close()

	h := NewHTTP(Options{AllowedHosts: []string{"127.0.0.1"}})

	if _, err := h.Fetch(context.Background(), srv.URL+"/a.ogg"); err != nil {
		t.Errorf("Fetch() allowed host error = %v", err)
	}
	if _, err := h.Fetch(context.Background(), srv.URL+"/redirect"); !errors.Is(err, ErrHostNotAllowed) {
		t.Errorf("Fetch() redirect error = %v, want %v", err, ErrHostNotAllowed)
	}

	before := hits.Load()
	_, err := h.Fetch(context.Background(), "http://metadata.internal/latest")
	if !errors.Is(err, ErrHostNotAllowed) {
		t.Errorf("Fetch() other host error = %v, want %v", err, ErrHostNotAllowed)
	}
	if hits.Load() != before {
		t.Error("a request was sent for a host outside the list")
	}
}

func TestRoot_Fetch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "albums"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "albums", "a.ogg"), []byte("OggS"), 0o600); err != nil {
		t.Fatal(err)
	}

	f := &Root{Dir: dir}
	for _, id := range []string{"albums/a.ogg", "/albums/a.ogg", "file:///albums/a.ogg"} {
		got, err := f.Fetch(context.Background(), id)
		if err != nil {
			t.Errorf("Fetch(%q) error = %v", id, err)
			continue
		}
		if string(got) != "OggS" {
			t.Errorf("Fetch(%q) = %q, want %q", id, got, "OggS")
		}
	}
}

func TestRoot_StaysInside(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	if err := os.WriteFile(filepath.Join(parent, "secret.ogg"), []byte("OggS"), 0o600); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(parent, "media")
	if err := os.Mkdir(dir, 0o700); err != nil {
		t.Fatal(err)
	}

	f := &Root{Dir: dir}
	for _, id := range []string{
		"../secret.ogg",
		filepath.Join(parent, "secret.ogg"),
		"file://" + filepath.ToSlash(filepath.Join(parent, "secret.ogg")),
	} {
		if data, err := f.Fetch(context.Background(), id); err == nil {
			t.Errorf("Fetch(%q) = %q, want an error", id, data)
		}
	}
}
