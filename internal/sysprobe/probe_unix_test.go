//go:build linux || darwin

package sysprobe

import "testing"

func TestUtsString(t *testing.T) {
	if got := utsString([]byte{'6', '.', '8', 0, 'x'}); got != "6.8" {
		t.Fatalf("expected 6.8, got %q", got)
	}
	if got := utsString([]byte{'a', 'b'}); got != "ab" {
		t.Fatalf("expected ab, got %q", got)
	}
}
