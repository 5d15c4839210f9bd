//go:build linux

// pin_linux.go
//
// Linux binding for sched_setaffinity(2) pinning the calling OS thread to
// one logical CPU.  Errors are deliberately swallowed: under cgroup or
// container restrictions the call may fail with EPERM/EINVAL, and the
// fallback is simply no pin.  CPUs beyond the first 64 are ignored so the
// mask stays a single word.

package ring

import (
	"syscall"
	"unsafe"
)

// pinCPU pins the current thread to cpu.  Out-of-range indices are ignored.
func pinCPU(cpu int) {
	if cpu < 0 || cpu >= 64 {
		return
	}
	mask := [1]uintptr{1 << uint(cpu)}
	_, _, _ = syscall.RawSyscall(
		syscall.SYS_SCHED_SETAFFINITY,
		0, // pid 0 → current thread
		uintptr(unsafe.Sizeof(mask[0])),
		uintptr(unsafe.Pointer(&mask[0])),
	)
}
