// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

const maxRedirects = 10

// HTTP fetches a resource with a single GET.
type HTTP struct {
	Client    *http.Client
	MaxBytes  int64
	UserAgent string
	// Hosts, when not empty, are the only host names requested, redirects
	// included.
	Hosts []string
}

func NewHTTP(opts Options) *HTTP {
	h := &HTTP{
		MaxBytes:  opts.MaxBytes,
		UserAgent: opts.UserAgent,
	}
	for _, host := range opts.AllowedHosts {
		h.Hosts = append(h.Hosts, strings.ToLower(host))
	}

	h.Client = &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("stopped after 10 redirects")
			}
			if !h.allowed(req.URL.Hostname()) {
				return fmt.Errorf("%w: %s", ErrHostNotAllowed, req.URL.Hostname())
			}
			return nil
		},
	}

	return h
}

func (h *HTTP) allowed(host string) bool {
	return len(h.Hosts) == 0 || slices.Contains(h.Hosts, strings.ToLower(host))
}

func (h *HTTP) Fetch(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, id, nil)
	if err != nil {
		return nil, &Error{ID: id, Err: err}
	}
	if !h.allowed(req.URL.Hostname()) {
		return nil, &Error{ID: id, Err: fmt.Errorf("%w: %s", ErrHostNotAllowed, req.URL.Hostname())}
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{ID: id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{ID: id, Err: fmt.Errorf("%w: %s", ErrStatus, resp.Status)}
	}

	data, err := readLimited(resp.Body, h.MaxBytes)
	if err != nil {
		return nil, &Error{ID: id, Err: err}
	}

	return data, nil
}

// readLimited reads r to the end, failing once more than limit bytes
// arrive. A limit of zero or less disables the check.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}
