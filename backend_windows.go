//go:build windows

package godialog

import (
	"fmt"
	"os/exec"
	"strings"
)

// probePlatformBackends discovers Windows backends. The WinForms dialogs are
// driven through PowerShell so no window-class registration or COM
// apartment state leaks into the host process.
func probePlatformBackends() []*Descriptor {
	var backends []*Descriptor
	if d := scriptedDescriptor(); d != nil {
		backends = append(backends, d)
	}
	if tool, err := exec.LookPath("powershell.exe"); err == nil {
		backends = append(backends, powershellDescriptor(tool))
	}
	return backends
}

func powershellDescriptor(tool string) *Descriptor {
	return &Descriptor{
		ID:       backendPowerShell,
		Priority: priorityNative,
		Mode:     InvokeExternal,
		Tool:     tool,
		kinds:    kindSet(allKinds...),
		args:     powershellArgs,
	}
}

func powershellArgs(req *Request) []string {
	return []string{
		"-NoProfile", "-NonInteractive", "-Command",
		powershellScriptFor(req),
	}
}

// powershellScriptFor builds a WinForms snippet for one request. Every
// script exits 1 on user dismissal so the shared parser rules apply.
func powershellScriptFor(req *Request) string {
	var b strings.Builder
	b.WriteString("Add-Type -AssemblyName System.Windows.Forms; ")
	b.WriteString("Add-Type -AssemblyName System.Drawing; ")

	title := escapePowerShell(req.Title)

	switch req.Kind {
	case KindMessage:
		fmt.Fprintf(&b,
			"$r = [System.Windows.Forms.MessageBox]::Show('%s', '%s', 'OKCancel'); "+
				"if ($r -ne 'OK') { exit 1 }",
			escapePowerShell(req.Text), title)

	case KindColor:
		b.WriteString("$d = New-Object System.Windows.Forms.ColorDialog; ")
		b.WriteString("if ($d.ShowDialog() -ne 'OK') { exit 1 }; ")
		b.WriteString(`'#{0:x2}{1:x2}{2:x2}' -f $d.Color.R, $d.Color.G, $d.Color.B`)

	case KindFont:
		b.WriteString("$d = New-Object System.Windows.Forms.FontDialog; ")
		b.WriteString("if ($d.ShowDialog() -ne 'OK') { exit 1 }; ")
		b.WriteString(`'{0} {1}' -f $d.Font.Name, $d.Font.Size`)

	case KindOpenFolder:
		b.WriteString("$d = New-Object System.Windows.Forms.FolderBrowserDialog; ")
		if req.DefaultPath != "" {
			fmt.Fprintf(&b, "$d.SelectedPath = '%s'; ", escapePowerShell(req.DefaultPath))
		}
		b.WriteString("if ($d.ShowDialog() -ne 'OK') { exit 1 }; $d.SelectedPath")

	case KindSaveFile:
		b.WriteString("$d = New-Object System.Windows.Forms.SaveFileDialog; ")
		fmt.Fprintf(&b, "$d.Title = '%s'; ", title)
		if f := winFilter(req.Filters); f != "" {
			fmt.Fprintf(&b, "$d.Filter = '%s'; ", f)
		}
		if req.DefaultPath != "" {
			fmt.Fprintf(&b, "$d.FileName = '%s'; ", escapePowerShell(req.DefaultPath))
		}
		b.WriteString("if ($d.ShowDialog() -ne 'OK') { exit 1 }; $d.FileName")

	default:
		b.WriteString("$d = New-Object System.Windows.Forms.OpenFileDialog; ")
		fmt.Fprintf(&b, "$d.Title = '%s'; ", title)
		if f := winFilter(req.Filters); f != "" {
			fmt.Fprintf(&b, "$d.Filter = '%s'; ", f)
		}
		if req.DefaultPath != "" {
			fmt.Fprintf(&b, "$d.InitialDirectory = '%s'; ", escapePowerShell(req.DefaultPath))
		}
		if req.Kind == KindOpenFiles || req.Options.AllowMultiple {
			b.WriteString("$d.Multiselect = $true; ")
		}
		b.WriteString("if ($d.ShowDialog() -ne 'OK') { exit 1 }; ")
		b.WriteString("$d.FileNames -join \"`n\"")
	}

	return b.String()
}

// winFilter renders the WinForms "Images (*.png)|*.png;*.jpg" filter string
func winFilter(filters []Filter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		globs := make([]string, 0, len(f.Extensions))
		for _, ext := range normalizeExtensions(f.Extensions) {
			globs = append(globs, "*."+ext)
		}
		if len(globs) == 0 {
			continue
		}
		label := f.Label
		if label == "" {
			label = strings.Join(globs, ", ")
		}
		parts = append(parts, escapePowerShell(label)+"|"+strings.Join(globs, ";"))
	}
	return strings.Join(parts, "|")
}

func escapePowerShell(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
