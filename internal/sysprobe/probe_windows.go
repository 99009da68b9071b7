//go:build windows

package sysprobe

import (
	"strconv"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/verte-zerg/trailcap/internal/model"
)

const precisionTouchpadKey = `Software\Microsoft\Windows\CurrentVersion\PrecisionTouchPad`

const (
	spiGetMouse      = 0x0003
	spiGetMouseSpeed = 0x0070
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfo = user32.NewProc("SystemParametersInfoW")
)

type windowsReader struct {
	warn func(format string, args ...any)

	// Touchpad registry values present on this machine, probed once.
	touchpadValues map[string]bool
}

func newPlatformReader(warn func(format string, args ...any)) Reader {
	r := &windowsReader{warn: warn, touchpadValues: map[string]bool{}}
	key, err := registry.OpenKey(registry.CURRENT_USER, precisionTouchpadKey, registry.QUERY_VALUE)
	if err != nil {
		warn("failed to open touchpad registry key: %v\n", err)
		return r
	}
	defer func() {
		if cerr := key.Close(); cerr != nil {
			// Best-effort key close.
			_ = cerr
		}
	}()
	names, err := key.ReadValueNames(0)
	if err != nil {
		warn("failed to list touchpad registry values: %v\n", err)
		return r
	}
	for _, name := range names {
		switch name {
		case "CursorSpeed", "HonorMouseAccelSetting":
			r.touchpadValues[name] = true
		}
	}
	return r
}

// Read reads the touchpad registry values and the user32 mouse
// parameters. Individual failures leave the -1 sentinel in place.
func (r *windowsReader) Read() model.SystemSettings {
	settings := baseSettings()
	r.readTouchpad(&settings)
	r.readMouse(&settings)
	return settings
}

func (r *windowsReader) readTouchpad(settings *model.SystemSettings) {
	if len(r.touchpadValues) == 0 {
		return
	}
	key, err := registry.OpenKey(registry.CURRENT_USER, precisionTouchpadKey, registry.QUERY_VALUE)
	if err != nil {
		r.warn("failed to open touchpad registry key: %v\n", err)
		return
	}
	defer func() {
		if cerr := key.Close(); cerr != nil {
			// Best-effort key close.
			_ = cerr
		}
	}()
	if r.touchpadValues["CursorSpeed"] {
		if v, _, err := key.GetIntegerValue("CursorSpeed"); err == nil {
			settings.TouchpadSpeed = int(v)
		} else {
			r.warn("failed to read touchpad cursor speed: %v\n", err)
		}
	}
	if r.touchpadValues["HonorMouseAccelSetting"] {
		if v, _, err := key.GetIntegerValue("HonorMouseAccelSetting"); err == nil {
			settings.TouchpadHonor = int(v)
		} else {
			r.warn("failed to read touchpad accel honor: %v\n", err)
		}
	}
}

func (r *windowsReader) readMouse(settings *model.SystemSettings) {
	var speed int32
	ok, _, callErr := procSystemParametersInfo.Call(
		uintptr(spiGetMouseSpeed), 0, uintptr(unsafe.Pointer(&speed)), 0)
	if ok == 0 {
		r.warn("failed to read mouse speed: %v\n", callErr)
	} else {
		settings.MouseSpeedRec = int(speed)
	}

	var mouse [3]int32
	ok, _, callErr = procSystemParametersInfo.Call(
		uintptr(spiGetMouse), 0, uintptr(unsafe.Pointer(&mouse[0])), 0)
	if ok == 0 {
		r.warn("failed to read mouse thresholds: %v\n", callErr)
		return
	}
	settings.MouseThreshold1 = int(mouse[0])
	settings.MouseThreshold2 = int(mouse[1])
	settings.MouseAcceleration = int(mouse[2])
}

func platformVersion() string {
	info := windows.RtlGetVersion()
	return strconv.Itoa(int(info.MajorVersion))
}
