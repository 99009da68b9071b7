//go:build !windows && !linux && !darwin

package sysprobe

import "github.com/verte-zerg/trailcap/internal/model"

type stubReader struct{}

func newPlatformReader(_ func(format string, args ...any)) Reader {
	return stubReader{}
}

func (stubReader) Read() model.SystemSettings {
	return baseSettings()
}

func platformVersion() string {
	return ""
}
