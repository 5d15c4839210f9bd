package utils

import (
	"syscall"
	"unsafe"
)

///////////////////////////////////////////////////////////////////////////////
// Raw Output — Alloc-Free stderr Writes
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes s straight to stderr (file descriptor 2) with a single
// syscall and no intermediate buffering. The string's backing bytes are
// aliased, not copied.
// ⚠️ Cold paths only — one syscall per call.
//
//go:nosplit
//go:inline
func PrintWarning(s string) {
	if len(s) == 0 {
		return
	}
	_, _ = syscall.Write(2, unsafe.Slice(unsafe.StringData(s), len(s)))
}

///////////////////////////////////////////////////////////////////////////////
// Formatters — No fmt, No Allocation Beyond the Result
///////////////////////////////////////////////////////////////////////////////

// Itoa converts an int to its decimal string form without going through
// strconv's generic machinery. Used on diagnostic print paths.
//
//go:nosplit
//go:inline
func Itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Ftoa formats a float32 with three fixed decimals, enough resolution for
// weight and overlap diagnostics. Not a general-purpose formatter: values
// beyond the int64 range are clamped.
//
//go:nosplit
//go:inline
func Ftoa(f float32) string {
	neg := f < 0
	if neg {
		f = -f
	}
	scaled := int64(f*1000 + 0.5)
	whole := scaled / 1000
	frac := scaled % 1000
	var buf [4]byte
	buf[0] = '.'
	buf[1] = byte('0' + frac/100)
	buf[2] = byte('0' + (frac/10)%10)
	buf[3] = byte('0' + frac%10)
	s := Itoa(int(whole)) + string(buf[:])
	if neg {
		return "-" + s
	}
	return s
}

///////////////////////////////////////////////////////////////////////////////
// Hash & Mixers — Synthetic Workload Derivation
///////////////////////////////////////////////////////////////////////////////

// Mix64 applies a Murmur3-style avalanche to a 64-bit value.
// Used to derive deterministic weights and cell assignments for synthetic
// task graphs without dragging in a PRNG state.
//
//go:nosplit
//go:inline
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
