//go:build !linux && !windows && !darwin

package godialog

// Only the scripted backend is available on platforms without a known
// native dialog mechanism.
func probePlatformBackends() []*Descriptor {
	var backends []*Descriptor
	if d := scriptedDescriptor(); d != nil {
		backends = append(backends, d)
	}
	return backends
}
