//go:build darwin

package godialog

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa

#include <stdlib.h>
#import <Cocoa/Cocoa.h>

// Runs an NSOpenPanel/NSSavePanel modally on the current thread. The caller
// must already be on the main thread; the Go side enforces that through the
// affinity guard. Returns a strdup'ed newline-joined path list, or NULL when
// the user cancelled.
static const char* runFilePanel(int save, int multiple, int dirsOnly, int showHidden,
                                const char* title, const char* defaultPath) {
    const char* result = NULL;
    @autoreleasepool {
        [NSApp activateIgnoringOtherApps:YES];

        NSSavePanel* panel;
        if (save) {
            panel = [NSSavePanel savePanel];
        } else {
            NSOpenPanel* open = [NSOpenPanel openPanel];
            [open setCanChooseFiles:(dirsOnly ? NO : YES)];
            [open setCanChooseDirectories:(dirsOnly ? YES : NO)];
            [open setAllowsMultipleSelection:(multiple ? YES : NO)];
            panel = open;
        }
        if (title != NULL) {
            [panel setMessage:[NSString stringWithUTF8String:title]];
        }
        if (defaultPath != NULL) {
            NSString* path = [NSString stringWithUTF8String:defaultPath];
            [panel setDirectoryURL:[NSURL fileURLWithPath:path]];
        }
        [panel setShowsHiddenFiles:(showHidden ? YES : NO)];
        [panel setLevel:NSFloatingWindowLevel];

        if ([panel runModal] == NSModalResponseOK) {
            NSMutableArray* paths = [NSMutableArray array];
            if (save) {
                [paths addObject:[[panel URL] path]];
            } else {
                for (NSURL* url in [(NSOpenPanel*)panel URLs]) {
                    [paths addObject:[url path]];
                }
            }
            if ([paths count] > 0) {
                result = strdup([[paths componentsJoinedByString:@"\n"] UTF8String]);
            }
        }
    }
    return result;
}

static void freePanelResult(const char* str) {
    free((void*)str);
}
*/
import "C"

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"unsafe"
)

// probePlatformBackends discovers macOS backends: Cocoa panels first, with
// osascript as the external fallback. Window-server reachability is not
// probed; a process launched without it fails at call time rather than
// silently losing its highest-priority backend.
func probePlatformBackends() []*Descriptor {
	var backends []*Descriptor
	if d := scriptedDescriptor(); d != nil {
		backends = append(backends, d)
	}

	backends = append(backends, cocoaDescriptor())

	if tool, err := exec.LookPath("osascript"); err == nil {
		backends = append(backends, osascriptDescriptor(tool))
	}
	return backends
}

func cocoaDescriptor() *Descriptor {
	return &Descriptor{
		ID:               backendCocoa,
		Priority:         priorityNative,
		Mode:             InvokeInProcess,
		RequiresUIThread: true,
		kinds:            kindSet(fileKinds...),
		call:             cocoaCall,
	}
}

// cocoaCall runs the native panel. Cancellation is best-effort: the modal
// panel cannot be interrupted, so a cancelled context is honored only after
// the panel returns (the bridge then discards the result).
func cocoaCall(_ context.Context, req *Request) Result {
	var ctitle, cpath *C.char
	if req.Title != "" {
		ctitle = C.CString(req.Title)
		defer C.free(unsafe.Pointer(ctitle))
	}
	if req.DefaultPath != "" {
		cpath = C.CString(req.DefaultPath)
		defer C.free(unsafe.Pointer(cpath))
	}

	save := boolToC(req.Kind == KindSaveFile)
	multiple := boolToC(req.Kind == KindOpenFiles || req.Options.AllowMultiple)
	dirsOnly := boolToC(req.Kind == KindOpenFolder || req.Options.DirectoriesOnly)
	hidden := boolToC(req.Options.ShowHidden)

	cstr := C.runFilePanel(save, multiple, dirsOnly, hidden, ctitle, cpath)
	if cstr == nil {
		return cancelled()
	}
	defer C.freePanelResult(cstr)

	paths := splitPaths(C.GoString(cstr))
	if len(paths) == 0 {
		return cancelled()
	}
	return selected(paths)
}

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func osascriptDescriptor(tool string) *Descriptor {
	return &Descriptor{
		ID:       backendOSAScript,
		Priority: priorityPortal,
		Mode:     InvokeExternal,
		Tool:     tool,
		kinds: kindSet(KindOpenFile, KindOpenFiles, KindOpenFolder,
			KindSaveFile, KindMessage, KindColor),
		args: osascriptArgs,
	}
}

func osascriptArgs(req *Request) []string {
	return []string{"-e", appleScriptFor(req)}
}

// appleScriptFor builds the AppleScript body for one request. A user
// dismissal makes osascript exit 1 (error -128), which the parser maps to
// Cancelled.
func appleScriptFor(req *Request) string {
	title := escapeAppleScript(req.Title)

	switch req.Kind {
	case KindMessage:
		return fmt.Sprintf(
			`display dialog "%s" with title "%s" buttons {"Cancel", "OK"} default button "OK"`,
			escapeAppleScript(req.Text), title)

	case KindColor:
		return `choose color`

	case KindOpenFolder:
		return fmt.Sprintf(`POSIX path of (choose folder with prompt "%s")`, title)

	case KindSaveFile:
		script := fmt.Sprintf(`choose file name with prompt "%s"`, title)
		if req.DefaultPath != "" {
			script += fmt.Sprintf(` default name "%s"`, escapeAppleScript(req.DefaultPath))
		}
		return "POSIX path of (" + script + ")"

	default:
		choose := fmt.Sprintf(`choose file with prompt "%s"`, title)
		if types := appleScriptTypes(req.Filters); types != "" {
			choose += " of type {" + types + "}"
		}
		if req.Kind == KindOpenFiles || req.Options.AllowMultiple {
			choose += " with multiple selections allowed"
			return `set out to ""
repeat with f in (` + choose + `)
	set out to out & POSIX path of f & "\n"
end repeat
return out`
		}
		return "POSIX path of (" + choose + ")"
	}
}

func appleScriptTypes(filters []Filter) string {
	var types []string
	for _, f := range filters {
		for _, ext := range normalizeExtensions(f.Extensions) {
			if ext == "*" {
				return ""
			}
			types = append(types, `"`+ext+`"`)
		}
	}
	return strings.Join(types, ", ")
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
