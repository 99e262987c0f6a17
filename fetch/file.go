// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"context"
	"net/url"
	"os"
)

// File reads local files, given as plain paths or file:// URLs.
type File struct {
	MaxBytes int64
}

func (f *File) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{ID: id, Err: err}
	}

	fh, err := os.Open(Path(id))
	if err != nil {
		return nil, &Error{ID: id, Err: err}
	}
	defer fh.Close()

	data, err := readLimited(fh, f.MaxBytes)
	if err != nil {
		return nil, &Error{ID: id, Err: err}
	}

	return data, nil
}

// Path returns the local path of a file:// URL, or id itself.
func Path(id string) string {
	if Scheme(id) != "file" {
		return id
	}
	u, err := url.Parse(id)
	if err != nil || u.Scheme == "" || len(u.Scheme) < 2 {
		return id
	}
	return u.Path
}
