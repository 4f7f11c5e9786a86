package godialog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ScriptEnv names an environment variable holding the path of a Tengo
// script. When set, the scripted backend is probed at the highest priority,
// so automation harnesses can intercept every dialog the process would show.
const ScriptEnv = "GODIALOG_SCRIPT"

// The script receives a `request` map (kind, title, text, default_path,
// allow_multiple, filters as [{label, extensions}]) and must set `outcome`
// to one of "selected", "confirmed", "denied", "cancelled", "color" or
// "font", plus the matching value variable: `paths` (array of string),
// `color` ("#rrggbb") or `font` ("Family Size").

var (
	scriptMu  sync.Mutex
	scriptSrc []byte
)

// SetScript installs (or, with nil, removes) the scripted backend source
// for this process. Call Registry.Invalidate afterwards if dialogs were
// already shown.
func SetScript(src []byte) {
	scriptMu.Lock()
	defer scriptMu.Unlock()
	scriptSrc = src
}

// scriptedDescriptor returns the scripted backend when a script is
// configured, either programmatically or through ScriptEnv
func scriptedDescriptor() *Descriptor {
	scriptMu.Lock()
	src := scriptSrc
	scriptMu.Unlock()

	if src == nil {
		path := os.Getenv(ScriptEnv)
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "godialog: cannot read %s=%s: %v\n", ScriptEnv, path, err)
			return nil
		}
		src = data
	}

	return &Descriptor{
		ID:       backendScript,
		Priority: priorityScript,
		Mode:     InvokeInProcess,
		kinds:    kindSet(allKinds...),
		call: func(ctx context.Context, req *Request) Result {
			return runScript(ctx, src, req)
		},
	}
}

func runScript(ctx context.Context, src []byte, req *Request) Result {
	filters := make([]interface{}, 0, len(req.Filters))
	for _, f := range req.Filters {
		exts := make([]interface{}, 0, len(f.Extensions))
		for _, e := range normalizeExtensions(f.Extensions) {
			exts = append(exts, e)
		}
		filters = append(filters, map[string]interface{}{
			"label":      f.Label,
			"extensions": exts,
		})
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	_ = script.Add("request", map[string]interface{}{
		"kind":           string(req.Kind),
		"title":          req.Title,
		"text":           req.Text,
		"default_path":   req.DefaultPath,
		"allow_multiple": req.Kind == KindOpenFiles || req.Options.AllowMultiple,
		"filters":        filters,
	})
	_ = script.Add("outcome", "")
	_ = script.Add("paths", []interface{}{})
	_ = script.Add("color", "")
	_ = script.Add("font", "")

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return failed(&BackendError{Backend: backendScript, Code: -1, Detail: err.Error()})
	}

	switch compiled.Get("outcome").String() {
	case "selected":
		var paths []string
		for _, v := range compiled.Get("paths").Array() {
			if s, ok := v.(string); ok && s != "" {
				paths = append(paths, s)
			}
		}
		if len(paths) == 0 {
			return cancelled()
		}
		return selected(paths)

	case "confirmed":
		return confirmed(true)

	case "denied":
		return confirmed(false)

	case "color":
		c, err := ParseColor(compiled.Get("color").String())
		if err != nil {
			return failed(&BackendError{Backend: backendScript, Code: -1, Detail: err.Error()})
		}
		return Result{Outcome: OutcomeColor, Color: c}

	case "font":
		f, err := ParseFont(compiled.Get("font").String())
		if err != nil {
			return failed(&BackendError{Backend: backendScript, Code: -1, Detail: err.Error()})
		}
		return Result{Outcome: OutcomeFont, Font: f}

	case "cancelled", "":
		return cancelled()

	default:
		return failed(&BackendError{
			Backend: backendScript,
			Code:    -1,
			Detail:  fmt.Sprintf("script set unknown outcome %q", compiled.Get("outcome").String()),
		})
	}
}
