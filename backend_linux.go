//go:build linux

package godialog

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Vladistone/godialog/internal/portal"
	"github.com/Vladistone/godialog/internal/session"
)

// probePlatformBackends discovers Linux backends in preference order:
// desktop portal first, then command-line tools found on PATH. The desktop
// session only reorders kdialog/zenity (kdialog wins inside KDE); it never
// admits a backend that failed its probe.
func probePlatformBackends() []*Descriptor {
	var backends []*Descriptor
	if d := scriptedDescriptor(); d != nil {
		backends = append(backends, d)
	}

	sess := session.Detect()
	if sess.Headless() && !sess.HasBus {
		return backends
	}

	if sess.HasBus && portal.Available() {
		backends = append(backends, portalDescriptor())
	}

	if sess.HasDisplay {
		kdialogPriority, zenityPriority := priorityKDialog, priorityZenity
		if sess.Desktop != session.DesktopKDE {
			kdialogPriority, zenityPriority = priorityZenity, priorityKDialog
		}
		if tool, err := exec.LookPath("kdialog"); err == nil {
			backends = append(backends, kdialogDescriptor(tool, kdialogPriority))
		}
		if tool, err := exec.LookPath("zenity"); err == nil {
			backends = append(backends, zenityDescriptor(tool, zenityPriority))
		}
	}

	return backends
}

func portalDescriptor() *Descriptor {
	return &Descriptor{
		ID:       backendPortal,
		Priority: priorityPortal,
		Mode:     InvokeInProcess,
		kinds:    kindSet(fileKinds...),
		call:     portalCall,
	}
}

func portalCall(ctx context.Context, req *Request) Result {
	filters := make([]portal.Filter, 0, len(req.Filters))
	for _, f := range req.Filters {
		filters = append(filters, portal.Filter{
			Label:      f.Label,
			Extensions: normalizeExtensions(f.Extensions),
		})
	}

	var paths []string
	var err error
	if req.Kind == KindSaveFile {
		paths, err = portal.SaveFile(ctx, portal.SaveOptions{
			Title:         req.Title,
			ParentWindow:  portalWindowHandle(req.Parent),
			CurrentName:   filepath.Base(req.DefaultPath),
			CurrentFolder: filepath.Dir(req.DefaultPath),
			Filters:       filters,
		})
	} else {
		paths, err = portal.OpenFile(ctx, portal.OpenOptions{
			Title:         req.Title,
			ParentWindow:  portalWindowHandle(req.Parent),
			Multiple:      req.Kind == KindOpenFiles || req.Options.AllowMultiple,
			Directory:     req.Kind == KindOpenFolder || req.Options.DirectoriesOnly,
			CurrentFolder: req.DefaultPath,
			Filters:       filters,
		})
	}

	switch {
	case errors.Is(err, portal.ErrCancelled):
		return cancelled()
	case err != nil:
		return failed(&BackendError{Backend: backendPortal, Code: -1, Detail: err.Error()})
	case len(paths) == 0:
		return cancelled()
	default:
		return selected(paths)
	}
}

// portalWindowHandle formats an X11 window id the way the portal expects
func portalWindowHandle(parent uintptr) string {
	if parent == 0 {
		return ""
	}
	return fmt.Sprintf("x11:%x", parent)
}

func zenityDescriptor(tool string, priority int) *Descriptor {
	return &Descriptor{
		ID:       backendZenity,
		Priority: priority,
		Mode:     InvokeExternal,
		Tool:     tool,
		kinds: kindSet(KindOpenFile, KindOpenFiles, KindOpenFolder,
			KindSaveFile, KindMessage, KindColor),
		args: zenityArgs,
	}
}

func zenityArgs(req *Request) []string {
	var argv []string
	switch req.Kind {
	case KindMessage:
		argv = append(argv, "--question", "--text="+req.Text)
	case KindColor:
		argv = append(argv, "--color-selection")
	default:
		argv = append(argv, "--file-selection")
		if req.Kind == KindOpenFiles || req.Options.AllowMultiple {
			argv = append(argv, "--multiple", "--separator=\n")
		}
		if req.Kind == KindOpenFolder || req.Options.DirectoriesOnly {
			argv = append(argv, "--directory")
		}
		if req.Kind == KindSaveFile {
			argv = append(argv, "--save", "--confirm-overwrite")
		}
		if req.DefaultPath != "" {
			argv = append(argv, "--filename="+req.DefaultPath)
		}
		for _, f := range req.Filters {
			argv = append(argv, "--file-filter="+zenityFilter(f))
		}
	}
	if req.Title != "" {
		argv = append(argv, "--title="+req.Title)
	}
	if req.Parent != 0 {
		argv = append(argv, fmt.Sprintf("--attach=%d", req.Parent))
	}
	return argv
}

// zenityFilter renders "Label | *.png *.jpg"
func zenityFilter(f Filter) string {
	globs := make([]string, 0, len(f.Extensions))
	for _, ext := range normalizeExtensions(f.Extensions) {
		globs = append(globs, "*."+ext)
	}
	if f.Label == "" {
		return strings.Join(globs, " ")
	}
	return f.Label + " | " + strings.Join(globs, " ")
}

func kdialogDescriptor(tool string, priority int) *Descriptor {
	return &Descriptor{
		ID:       backendKDialog,
		Priority: priority,
		Mode:     InvokeExternal,
		Tool:     tool,
		kinds: kindSet(KindOpenFile, KindOpenFiles, KindOpenFolder,
			KindSaveFile, KindMessage, KindColor),
		args: kdialogArgs,
	}
}

func kdialogArgs(req *Request) []string {
	var argv []string
	if req.Title != "" {
		argv = append(argv, "--title", req.Title)
	}
	if req.Parent != 0 {
		argv = append(argv, "--attach", fmt.Sprintf("%d", req.Parent))
	}

	startDir := req.DefaultPath
	if startDir == "" {
		startDir = "."
	}

	switch req.Kind {
	case KindMessage:
		argv = append(argv, "--yesno", req.Text)
	case KindColor:
		argv = append(argv, "--getcolor")
	case KindOpenFolder:
		argv = append(argv, "--getexistingdirectory", startDir)
	case KindSaveFile:
		argv = append(argv, "--getsavefilename", startDir)
		if filter := kdialogFilter(req.Filters); filter != "" {
			argv = append(argv, filter)
		}
	default:
		argv = append(argv, "--getopenfilename", startDir)
		if filter := kdialogFilter(req.Filters); filter != "" {
			argv = append(argv, filter)
		}
		if req.Kind == KindOpenFiles || req.Options.AllowMultiple {
			argv = append(argv, "--multiple", "--separate-output")
		}
	}
	return argv
}

// kdialogFilter renders the "*.png *.jpg|Images" filter argument. kdialog
// accepts a single filter string, so the request's ordered filters are
// joined with newlines as the tool documents.
func kdialogFilter(filters []Filter) string {
	lines := make([]string, 0, len(filters))
	for _, f := range filters {
		globs := make([]string, 0, len(f.Extensions))
		for _, ext := range normalizeExtensions(f.Extensions) {
			globs = append(globs, "*."+ext)
		}
		if len(globs) == 0 {
			continue
		}
		line := strings.Join(globs, " ")
		if f.Label != "" {
			line += "|" + f.Label
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
