// Package platform is the OS font-registration collaborator the loader
// drives: installing a font file makes it available to every process
// for the lifetime of the registration, uninstalling reverts that.
package platform

// Registrar installs and removes font files from the operating system's
// font subsystem, and answers whether a family is already present
// system-wide (so the loader can skip registering something already
// installed).
type Registrar interface {
	// InstallFont registers the font file at path, returning an error on
	// failure. It must be safe to call for the same path more than once
	// from sequential calls (the loader's own dedup means this should
	// not normally happen, but a Registrar should not corrupt state if
	// it does).
	InstallFont(path string) error
	// UninstallFont reverses a prior successful InstallFont for path.
	UninstallFont(path string) error
	// IsFamilyInstalledSystemWide reports whether family is already
	// available without the loader registering anything.
	IsFamilyInstalledSystemWide(family string) bool
	// Describe reports, in one line, what this Registrar would do if
	// asked to register a font — used by shell-integration callers that
	// want to show the user what will happen without installing the
	// loader's Send-To shortcut. It names the mechanism, not a specific
	// font; callers needing per-file detail format their own message
	// around InstallFont's error.
	Describe() string
}
