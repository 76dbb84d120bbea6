package platform

import (
	"runtime"
	"testing"
)

func TestArchDefaultRewritesAmd64(t *testing.T) {
	m := NewMapper(nil, nil)
	if got := m.Arch("amd64"); got != "x86_64" {
		t.Fatalf("Arch(amd64) = %q, want x86_64", got)
	}
}

func TestOverrideWinsOverDefault(t *testing.T) {
	m := NewMapper(map[string]string{"darwin": "macos"}, map[string]string{"amd64": "x64"})
	if got := m.System("darwin"); got != "macos" {
		t.Fatalf("System(darwin) = %q, want macos", got)
	}
	if got := m.Arch("amd64"); got != "x64" {
		t.Fatalf("Arch(amd64) = %q, want x64", got)
	}
}

func TestUnmappedRawValuePassesThrough(t *testing.T) {
	m := NewMapper(nil, nil)
	if got := m.System("plan9"); got != "plan9" {
		t.Fatalf("System(plan9) = %q, want passthrough", got)
	}
	if got := m.Arch("riscv64"); got != "riscv64" {
		t.Fatalf("Arch(riscv64) = %q, want passthrough", got)
	}
}

func TestDetectUsesRuntimeIdentifiers(t *testing.T) {
	m := NewMapper(nil, nil)
	system, arch := m.Detect()
	if system != m.System(runtime.GOOS) {
		t.Fatalf("Detect system = %q, want %q", system, m.System(runtime.GOOS))
	}
	if arch != m.Arch(runtime.GOARCH) {
		t.Fatalf("Detect arch = %q, want %q", arch, m.Arch(runtime.GOARCH))
	}
}

func TestDefaultTablesAreInspectable(t *testing.T) {
	label, ok := DefaultArchLabel("386")
	if !ok || label != "i386" {
		t.Fatalf("DefaultArchLabel(386) = %q ok=%v, want i386", label, ok)
	}
	if _, ok := DefaultSystemLabel("plan9"); ok {
		t.Fatalf("expected no built-in default for plan9")
	}
}

func TestOverridesDoNotMutateDefaults(t *testing.T) {
	m := NewMapper(map[string]string{"linux": "musl"}, nil)
	if got := m.System("linux"); got != "musl" {
		t.Fatalf("System(linux) = %q, want musl", got)
	}
	label, ok := DefaultSystemLabel("linux")
	if !ok || label != "linux" {
		t.Fatalf("built-in default changed: %q ok=%v", label, ok)
	}
}
