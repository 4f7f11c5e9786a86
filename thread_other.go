//go:build !linux && !windows && !darwin

package godialog

// No usable thread identity on this platform; affinity checks degrade to
// pass-through behavior.
func currentThreadID() uint64 {
	return 0
}
