package godialog

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrUnsupportedKind = errors.New("no backend supports the requested dialog kind")
	ErrNoBackend       = errors.New("no dialog backend available")
	ErrWrongThread     = errors.New("call must run on the UI thread")
	ErrTimeout         = errors.New("dialog process timed out")
	ErrUnknownHandle   = errors.New("unknown dialog handle")
)

// BackendError reports a backend that ran but exited abnormally. Code is the
// raw exit code (or -1 when the process died on a signal); Detail carries a
// stderr excerpt or the signal description.
type BackendError struct {
	Backend string
	Code    int
	Detail  string
}

func (e *BackendError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend %s failed with exit code %d", e.Backend, e.Code)
	}
	return fmt.Sprintf("backend %s failed with exit code %d: %s", e.Backend, e.Code, e.Detail)
}
