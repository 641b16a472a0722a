//go:build !windows

package platform

// noop is the Registrar used on platforms without a concrete font
// registration backend wired up yet. It always reports fonts as not
// already installed, and installation/removal are no-ops that succeed,
// so the rest of the pipeline (dedup, hashing, summary reporting) is
// still exercisable off Windows.
type noop struct{}

// NewRegistrar returns the platform Registrar for the current OS.
func NewRegistrar() Registrar { return noop{} }

func (noop) InstallFont(path string) error                 { return nil }
func (noop) UninstallFont(path string) error                { return nil }
func (noop) IsFamilyInstalledSystemWide(family string) bool { return false }
func (noop) Describe() string                               { return "no-op registrar (non-Windows build)" }
