// Package sysprobe reads OS mouse and touchpad parameters best-effort.
package sysprobe

import (
	"runtime"

	"github.com/verte-zerg/trailcap/internal/model"
)

// Reader reads the current system mouse/touchpad settings. Fields that
// cannot be read stay at the -1 sentinel; Read never fails.
type Reader interface {
	Read() model.SystemSettings
}

// New returns the probe for the current platform. On platforms without
// readable pointer settings all numeric fields stay -1.
func New(warn func(format string, args ...any)) Reader {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return newPlatformReader(warn)
}

func baseSettings() model.SystemSettings {
	return model.SystemSettings{
		TouchpadSpeed:     -1,
		TouchpadHonor:     -1,
		MouseSpeedRec:     -1,
		MouseThreshold1:   -1,
		MouseThreshold2:   -1,
		MouseAcceleration: -1,
		Platform:          platformName(),
		PlatformVersion:   platformVersion(),
	}
}

func platformName() string {
	switch runtime.GOOS {
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	default:
		return runtime.GOOS
	}
}
