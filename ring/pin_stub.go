//go:build !linux

// pin_stub.go
//
// Non-Linux targets run unpinned; the consumer loops are correct either
// way, pinning only tightens tail latency.

package ring

func pinCPU(cpu int) {}
