//go:build windows

package platform

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	gdi32                  = windows.NewLazySystemDLL("gdi32.dll")
	procAddFontResourceW   = gdi32.NewProc("AddFontResourceW")
	procRemoveFontResourceW = gdi32.NewProc("RemoveFontResourceW")

	user32                  = windows.NewLazySystemDLL("user32.dll")
	procEnumFontFamiliesExW = user32.NewProc("EnumFontFamiliesExW")
)

// logFontW mirrors the Win32 LOGFONTW struct's leading fields enough to
// drive EnumFontFamiliesExW; only lfFaceName is populated, since this
// package only uses the API to test for a family's presence.
type logFontW struct {
	lfHeight         int32
	lfWidth          int32
	lfEscapement     int32
	lfOrientation    int32
	lfWeight         int32
	lfItalic         byte
	lfUnderline      byte
	lfStrikeOut      byte
	lfCharSet        byte
	lfOutPrecision   byte
	lfClipPrecision  byte
	lfQuality        byte
	lfPitchAndFamily byte
	lfFaceName       [32]uint16
}

// Windows registers and unregisters fonts via the GDI AddFontResourceW /
// RemoveFontResourceW calls, and checks system-wide family presence via
// EnumFontFamiliesExW.
type Windows struct{}

// NewRegistrar returns the platform Registrar for the current OS.
func NewRegistrar() Registrar { return Windows{} }

func (Windows) InstallFont(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("platform: %w", err)
	}
	n, _, _ := procAddFontResourceW.Call(uintptr(unsafe.Pointer(p)))
	if n == 0 {
		return fmt.Errorf("platform: AddFontResourceW failed for %s", path)
	}
	return nil
}

func (Windows) UninstallFont(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("platform: %w", err)
	}
	ok, _, _ := procRemoveFontResourceW.Call(uintptr(unsafe.Pointer(p)))
	if ok == 0 {
		return fmt.Errorf("platform: RemoveFontResourceW failed for %s", path)
	}
	return nil
}

func (Windows) IsFamilyInstalledSystemWide(family string) bool {
	name, err := windows.UTF16FromString(family)
	if err != nil || len(name) > len(logFontW{}.lfFaceName) {
		return false
	}
	var lf logFontW
	copy(lf.lfFaceName[:], name)

	found := false
	cb := windows.NewCallback(func(lpelfe, lpntme, fontType uintptr, lParam uintptr) uintptr {
		found = true
		return 0 // non-zero would ask for another callback; we only need one hit
	})

	procEnumFontFamiliesExW.Call(
		0, // HDC: 0; no device context is acquired before the call
		uintptr(unsafe.Pointer(&lf)),
		cb,
		0,
		0,
	)
	return found
}

func (Windows) Describe() string {
	return "registers fonts with the Windows GDI font subsystem (AddFontResourceW/RemoveFontResourceW), session-scoped"
}
