package godialog

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Invoker performs a single dialog call against a selected backend. It is
// always synchronous at this layer; asynchrony is layered above by Bridge.
type Invoker struct {
	guard   *Guard
	timeout time.Duration // Applies to external-process backends only
}

// NewInvoker creates an invoker. timeout 0 disables the external-process
// deadline; in-process calls are never subject to a timeout (native dialogs
// return control strictly on user action).
func NewInvoker(guard *Guard, timeout time.Duration) *Invoker {
	if guard == nil {
		guard = PassthroughGuard()
	}
	return &Invoker{guard: guard, timeout: timeout}
}

// Invoke shows the dialog described by req using the given backend and
// blocks until it produces a result. In-process backends that require the
// UI thread are rejected with ErrWrongThread when invoked off that thread;
// callers wanting automatic scheduling go through Bridge instead.
func (iv *Invoker) Invoke(ctx context.Context, d *Descriptor, req *Request) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	if !d.Supports(req.Kind) {
		return failed(ErrUnsupportedKind)
	}

	switch d.Mode {
	case InvokeInProcess:
		if d.RequiresUIThread && !iv.guard.OnRequiredThread() {
			return failed(ErrWrongThread)
		}
		return d.call(ctx, req)

	default:
		return iv.invokeExternal(ctx, d, req)
	}
}

func (iv *Invoker) invokeExternal(ctx context.Context, d *Descriptor, req *Request) Result {
	callCtx := ctx
	if iv.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, iv.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(callCtx, d.Tool, d.args(req)...)
	killableCommand(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// The context killed the subprocess: distinguish caller cancellation
	// from the configured deadline. Run has already reaped the process.
	if ctx.Err() != nil {
		return cancelled()
	}
	if callCtx.Err() == context.DeadlineExceeded {
		return failed(ErrTimeout)
	}

	raw := rawOutput{stdout: stdout.Bytes(), stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		raw.exitCode = 0
	case errors.As(err, &exitErr):
		raw.exitCode = exitErr.ExitCode()
		if raw.exitCode < 0 {
			// Died on a signal; report it instead of escalating
			return failed(&BackendError{
				Backend: d.ID,
				Code:    raw.exitCode,
				Detail:  exitErr.ProcessState.String(),
			})
		}
	default:
		// Spawn failure (tool vanished since probing, permissions, ...)
		return failed(&BackendError{Backend: d.ID, Code: -1, Detail: err.Error()})
	}

	return parseOutput(d, req.Kind, raw)
}
