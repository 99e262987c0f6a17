// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// Fetcher retrieves the full content of a resource in one call.
type Fetcher interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, id string) ([]byte, error) { return f(ctx, id) }

// Options tune the fetchers installed by NewDefault.
type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	// AllowedHosts limits http and https ids to these host names. Empty
	// allows any host.
	AllowedHosts []string
}

// Registry dispatches to a Fetcher by the URL scheme of the resource id.
// Ids without a scheme are local paths and use the "file" entry.
type Registry struct {
	fetchers map[string]Fetcher
	mtx      sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		fetchers: make(map[string]Fetcher),
	}
}

// NewDefault returns a registry serving http, https and file ids.
func NewDefault(opts Options) *Registry {
	r := NewRemote(opts)
	r.Register("file", &File{MaxBytes: opts.MaxBytes})

	return r
}

// NewRemote returns a registry serving only http and https ids.
func NewRemote(opts Options) *Registry {
	r := NewRegistry()

	h := NewHTTP(opts)
	r.Register("http", h)
	r.Register("https", h)

	return r
}

func (r *Registry) Register(scheme string, f Fetcher) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.fetchers[strings.ToLower(scheme)] = f
}

func (r *Registry) Get(scheme string) (Fetcher, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	f, ok := r.fetchers[strings.ToLower(scheme)]
	return f, ok
}

// Schemes returns the registered schemes in sorted order.
func (r *Registry) Schemes() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]string, 0, len(r.fetchers))
	for s := range r.fetchers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Fetch(ctx context.Context, id string) ([]byte, error) {
	scheme := Scheme(id)

	f, ok := r.Get(scheme)
	if !ok {
		return nil, &Error{ID: id, Err: fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)}
	}

	data, err := f.Fetch(ctx, id)
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &Error{ID: id, Err: err}
	}

	return data, nil
}

// Scheme returns the lower-cased URL scheme of id, or "file" for plain
// paths (including Windows drive paths).
func Scheme(id string) string {
	u, err := url.Parse(id)
	if err != nil || len(u.Scheme) < 2 {
		return "file"
	}
	return strings.ToLower(u.Scheme)
}
