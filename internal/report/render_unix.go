//go:build !windows

package report

// enableANSI is a no-op on Unix-like systems where ANSI escape codes
// are supported natively.
func enableANSI() bool {
	return true
}
