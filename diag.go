// SPDX-License-Identifier: EPL-2.0

package oggproc

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

var discardLogger = slog.New(slog.DiscardHandler)

var (
	diagOnce   sync.Once
	diagLogger atomic.Pointer[slog.Logger]
)

// Init installs the logger ReportPanic writes to. Only the first call has
// an effect; later calls are ignored.
func Init(logger *slog.Logger) {
	diagOnce.Do(func() {
		if logger == nil {
			logger = discardLogger
		}
		diagLogger.Store(logger)
	})
}

func diag() *slog.Logger {
	if l := diagLogger.Load(); l != nil {
		return l
	}
	return discardLogger
}

// ReportPanic recovers a panic in the calling function, logs it once
// through the logger given to Init and stores it in *errp.
//
//	func handle() (err error) {
//	    defer oggproc.ReportPanic(&err)
//	    ...
//	}
func ReportPanic(errp *error) {
	v := recover()
	if v == nil {
		return
	}

	var err error
	switch x := v.(type) {
	case *BoundsError:
		err = x
	case error:
		err = fmt.Errorf("oggproc: panic: %w", x)
	default:
		err = fmt.Errorf("oggproc: panic: %v", x)
	}

	var be *BoundsError
	if errors.As(err, &be) {
		diag().Error("index out of range",
			slog.String("what", be.What),
			slog.Uint64("index", uint64(be.Index)),
			slog.Uint64("len", uint64(be.Len)),
		)
	} else {
		diag().Error("recovered panic", slog.String("error", err.Error()))
	}

	if errp != nil {
		*errp = err
	}
}
