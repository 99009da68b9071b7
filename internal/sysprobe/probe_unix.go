//go:build linux || darwin

package sysprobe

import (
	"golang.org/x/sys/unix"

	"github.com/verte-zerg/trailcap/internal/model"
)

type unixReader struct{}

func newPlatformReader(_ func(format string, args ...any)) Reader {
	return unixReader{}
}

// Read returns sentinel values; pointer acceleration settings are not
// probed outside Windows.
func (unixReader) Read() model.SystemSettings {
	return baseSettings()
}

func platformVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return utsString(uts.Release[:])
}

func utsString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
