package godialog

import (
	"fmt"
	"strings"
)

// Kind identifies the type of dialog to show
type Kind string

const (
	KindOpenFile   Kind = "open-file"
	KindOpenFiles  Kind = "open-files"
	KindOpenFolder Kind = "open-folder"
	KindSaveFile   Kind = "save-file"
	KindMessage    Kind = "message"
	KindColor      Kind = "color"
	KindFont       Kind = "font"
)

// Filter restricts file dialogs to a set of extensions
type Filter struct {
	Label      string   // Display label, e.g. "Images"
	Extensions []string // Extensions without the leading dot, e.g. "png"
}

// Options holds flags that modify dialog behavior
type Options struct {
	AllowMultiple   bool
	DirectoriesOnly bool
	ShowHidden      bool
}

// Request describes a dialog to show. It is immutable once passed to the
// library; the library never retains it past the call.
type Request struct {
	Kind        Kind
	Title       string
	DefaultPath string // Initial path for file dialogs
	Text        string // Body text for message dialogs, default text otherwise
	Filters     []Filter
	Parent      uintptr // Opaque native window handle, 0 for none
	Options     Options
}

// RGBA is a color picker result with 8-bit channels
type RGBA struct {
	R, G, B, A uint8
}

func (c RGBA) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FontChoice is a font picker result
type FontChoice struct {
	Family string
	Size   float64
}

// Outcome classifies how a dialog call ended
type Outcome int

const (
	OutcomeSelected Outcome = iota
	OutcomeConfirmed
	OutcomeColor
	OutcomeFont
	OutcomeCancelled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSelected:
		return "Selected"
	case OutcomeConfirmed:
		return "Confirmed"
	case OutcomeColor:
		return "Color"
	case OutcomeFont:
		return "Font"
	case OutcomeCancelled:
		return "Cancelled"
	case OutcomeFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Result is the normalized output of one dialog call. Exactly one is
// produced per request. A cancelled call and a failed call are always
// distinguishable: Cancelled() is true only for user dismissal, Err is
// non-nil only for failures.
type Result struct {
	Outcome   Outcome
	Paths     []string // OutcomeSelected
	Confirmed bool     // OutcomeConfirmed
	Color     RGBA     // OutcomeColor
	Font      FontChoice
	Err       error // OutcomeFailed
}

// Cancelled returns true if the user dismissed the dialog
func (r Result) Cancelled() bool {
	return r.Outcome == OutcomeCancelled
}

// Failed returns true if the call failed (not a user dismissal)
func (r Result) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// Path returns the first selected path, or empty string
func (r Result) Path() string {
	if len(r.Paths) == 0 {
		return ""
	}
	return r.Paths[0]
}

func selected(paths []string) Result {
	return Result{Outcome: OutcomeSelected, Paths: paths}
}

func confirmed(ok bool) Result {
	return Result{Outcome: OutcomeConfirmed, Confirmed: ok}
}

func cancelled() Result {
	return Result{Outcome: OutcomeCancelled}
}

func failed(err error) Result {
	return Result{Outcome: OutcomeFailed, Err: err}
}

// normalizeExtensions strips leading dots and lowercases, so callers can
// pass ".PNG" or "png" interchangeably
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(e, "."))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
