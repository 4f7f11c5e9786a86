package godialog

// Backend identifiers. Which of these get probed depends on the platform;
// the scripted backend is available everywhere once configured.
const (
	backendPortal     = "portal"
	backendZenity     = "zenity"
	backendKDialog    = "kdialog"
	backendCocoa      = "cocoa"
	backendOSAScript  = "osascript"
	backendPowerShell = "powershell"
	backendScript     = "script"
)

// Probe priorities. The scripted backend outranks everything so automation
// can intercept dialogs; desktop portals outrank command-line tools.
const (
	priorityScript  = 100
	priorityNative  = 80
	priorityPortal  = 60
	priorityKDialog = 40
	priorityZenity  = 30
)

var fileKinds = []Kind{KindOpenFile, KindOpenFiles, KindOpenFolder, KindSaveFile}

var allKinds = []Kind{
	KindOpenFile, KindOpenFiles, KindOpenFolder, KindSaveFile,
	KindMessage, KindColor, KindFont,
}
