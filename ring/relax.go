// relax.go
//
// Spin-loop back-off hint.  Kept portable: on targets with a dedicated
// pause instruction this is the place to swap in an assembly stub, and the
// call sites stay unchanged.

package ring

// Relax is the polite thing to call inside a busy-wait loop.
//
//go:nosplit
func Relax() {}
