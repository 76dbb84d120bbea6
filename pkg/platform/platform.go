package platform

import "runtime"

// Built-in defaults translate Go's runtime identifiers into the vocabulary
// most release assets use. User overrides always win for a given key; raw
// values absent from both tables pass through unchanged.
var systemDefaults = map[string]string{
	"darwin":  "darwin",
	"linux":   "linux",
	"windows": "windows",
}

var archDefaults = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
	"arm":   "arm",
}

// Mapper translates raw platform identifiers into asset filename labels.
type Mapper struct {
	systemOverrides map[string]string
	archOverrides   map[string]string
}

// NewMapper builds a Mapper with user-supplied override tables. Either map
// may be nil.
func NewMapper(systemOverrides, archOverrides map[string]string) *Mapper {
	return &Mapper{systemOverrides: systemOverrides, archOverrides: archOverrides}
}

// System maps a raw operating system identifier to its asset label.
func (m *Mapper) System(raw string) string {
	return mapLabel(raw, m.systemOverrides, systemDefaults)
}

// Arch maps a raw architecture identifier to its asset label.
func (m *Mapper) Arch(raw string) string {
	return mapLabel(raw, m.archOverrides, archDefaults)
}

// Detect returns the labels for the platform the tool runs on.
func (m *Mapper) Detect() (system, arch string) {
	return m.System(runtime.GOOS), m.Arch(runtime.GOARCH)
}

func mapLabel(raw string, overrides, defaults map[string]string) string {
	if label, ok := overrides[raw]; ok {
		return label
	}
	if label, ok := defaults[raw]; ok {
		return label
	}
	return raw
}

// DefaultSystemLabel reports the built-in label for a raw operating system
// identifier.
func DefaultSystemLabel(raw string) (string, bool) {
	label, ok := systemDefaults[raw]
	return label, ok
}

// DefaultArchLabel reports the built-in label for a raw architecture
// identifier.
func DefaultArchLabel(raw string) (string, bool) {
	label, ok := archDefaults[raw]
	return label, ok
}
