// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Root reads files below Dir only. Ids are taken relative to Dir, with or
// without a leading slash, and names that resolve outside of it fail.
type Root struct {
	Dir      string
	MaxBytes int64
}

func (f *Root) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{ID: id, Err: err}
	}

	root, err := os.OpenRoot(f.Dir)
	if err != nil {
		return nil, &Error{ID: id, Err: err}
	}
	defer root.Close()

	name := strings.TrimLeft(filepath.ToSlash(Path(id)), "/")
	fh, err := root.Open(filepath.FromSlash(name))
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
