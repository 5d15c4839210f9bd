// pin.go
//
// Thread-pinning entry point shared by workers and the stats collector.

package ring

import "runtime"

// PinThread locks the calling goroutine to its OS thread and, where the
// platform supports it, pins that thread to the given logical CPU.  Pair
// with UnpinThread on exit.
func PinThread(cpu int) {
	runtime.LockOSThread()
	pinCPU(cpu)
}

// UnpinThread releases the OS-thread lock taken by PinThread.  The affinity
// mask is left as-is; the thread returns to the scheduler pool.
func UnpinThread() {
	runtime.UnlockOSThread()
}
