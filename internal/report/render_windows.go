//go:build windows

package report

import (
	"os"
	"syscall"
	"unsafe"
)

// enableANSI enables virtual terminal processing on Windows consoles so
// ANSI escape codes are interpreted.
func enableANSI() bool {
	const enableVirtualTerminalProcessing = 0x0004

	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	getConsoleMode := kernel32.NewProc("GetConsoleMode")
	setConsoleMode := kernel32.NewProc("SetConsoleMode")

	handle := syscall.Handle(os.Stdout.Fd())

	var mode uint32
	ret, _, _ := getConsoleMode.Call(uintptr(handle), uintptr(unsafe.Pointer(&mode)))
	if ret == 0 {
		return false
	}

	mode |= enableVirtualTerminalProcessing
	ret, _, _ = setConsoleMode.Call(uintptr(handle), uintptr(mode))
	return ret != 0
}
