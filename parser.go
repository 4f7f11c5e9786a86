package godialog

import (
	"fmt"
	"strconv"
	"strings"
)

// rawOutput is what an external backend produced
type rawOutput struct {
	exitCode int
	stdout   []byte
	stderr   []byte
}

// parseRule drives output decoding for one backend
type parseRule struct {
	cancelCodes map[int]bool
	separator   string // Preferred path separator; NUL and newline are always normalized
}

// parseRules maps backend IDs to their decoding rules. Backends not listed
// here fall back to defaultRule (exit code 1 means user cancellation, which
// matches zenity, kdialog and osascript alike).
var parseRules = map[string]parseRule{
	backendZenity:     {cancelCodes: map[int]bool{1: true}, separator: "\n"},
	backendKDialog:    {cancelCodes: map[int]bool{1: true}, separator: "\n"},
	backendOSAScript:  {cancelCodes: map[int]bool{1: true}, separator: "\n"},
	backendPowerShell: {cancelCodes: map[int]bool{1: true}, separator: "\n"},
}

var defaultRule = parseRule{cancelCodes: map[int]bool{1: true}, separator: "\n"}

const stderrExcerptLimit = 256

// parseOutput decodes backend-specific raw output into a normalized Result.
// Ambiguous empty output where at least one path was expected is treated as
// Cancelled rather than Failed.
func parseOutput(d *Descriptor, kind Kind, raw rawOutput) Result {
	rule, ok := parseRules[d.ID]
	if !ok {
		rule = defaultRule
	}

	if rule.cancelCodes[raw.exitCode] {
		return cancelled()
	}
	if raw.exitCode != 0 {
		return failed(&BackendError{
			Backend: d.ID,
			Code:    raw.exitCode,
			Detail:  stderrExcerpt(raw.stderr),
		})
	}

	out := strings.TrimRight(string(raw.stdout), "\r\n\x00")

	switch kind {
	case KindMessage:
		return confirmed(true)

	case KindColor:
		if out == "" {
			return cancelled()
		}
		c, err := ParseColor(out)
		if err != nil {
			return failed(&BackendError{Backend: d.ID, Code: raw.exitCode, Detail: err.Error()})
		}
		return Result{Outcome: OutcomeColor, Color: c}

	case KindFont:
		if out == "" {
			return cancelled()
		}
		f, err := ParseFont(out)
		if err != nil {
			return failed(&BackendError{Backend: d.ID, Code: raw.exitCode, Detail: err.Error()})
		}
		return Result{Outcome: OutcomeFont, Font: f}

	default:
		paths := splitPaths(out)
		if len(paths) == 0 {
			return cancelled()
		}
		return selected(paths)
	}
}

// splitPaths normalizes newline- and NUL-delimited path lists into an
// ordered slice, preserving backend output order
func splitPaths(out string) []string {
	if out == "" {
		return nil
	}
	fields := strings.FieldsFunc(out, func(r rune) bool {
		return r == '\n' || r == '\x00'
	})
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimRight(f, "\r")
		if f != "" {
			paths = append(paths, f)
		}
	}
	return paths
}

func stderrExcerpt(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if len(s) > stderrExcerptLimit {
		s = s[:stderrExcerptLimit]
	}
	return s
}

// ParseColor accepts the color forms the backends emit: "#rrggbb",
// "rgb(r,g,b)", "rgba(r,g,b,a)" and the AppleScript 16-bit triple
// "65535, 32896, 0"
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 {
			return RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		return RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}

	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		inner := s[strings.Index(s, "(")+1:]
		inner = strings.TrimSuffix(inner, ")")
		parts := strings.Split(inner, ",")
		if len(parts) < 3 || len(parts) > 4 {
			return RGBA{}, fmt.Errorf("invalid rgb color %q", s)
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || n < 0 || n > 255 {
				return RGBA{}, fmt.Errorf("invalid rgb color %q", s)
			}
			ch[i] = uint8(n)
		}
		alpha := uint8(255)
		if len(parts) == 4 {
			// gdk_rgba_to_string emits alpha as a 0-1 float, e.g.
			// "rgba(107,152,143,0.94)"
			a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil || a < 0 || a > 1 {
				return RGBA{}, fmt.Errorf("invalid rgb color %q", s)
			}
			alpha = uint8(a*255 + 0.5)
		}
		return RGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
	}

	// AppleScript "choose color" returns a 16-bit triple
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return RGBA{}, fmt.Errorf("invalid color triple %q", s)
		}
		var ch [3]uint8
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 65535 {
				return RGBA{}, fmt.Errorf("invalid color triple %q", s)
			}
			ch[i] = uint8(n >> 8)
		}
		return RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
	}

	return RGBA{}, fmt.Errorf("unrecognized color %q", s)
}

// ParseFont parses the "Family Size" form shared by the GTK and KDE font
// choosers, e.g. "DejaVu Sans Mono 11"
func ParseFont(s string) (FontChoice, error) {
	s = strings.TrimSpace(s)
	idx := strings.LastIndexByte(s, ' ')
	if idx <= 0 {
		return FontChoice{}, fmt.Errorf("unrecognized font %q", s)
	}
	size, err := strconv.ParseFloat(s[idx+1:], 64)
	if err != nil {
		return FontChoice{}, fmt.Errorf("unrecognized font %q", s)
	}
	return FontChoice{Family: s[:idx], Size: size}, nil
}
