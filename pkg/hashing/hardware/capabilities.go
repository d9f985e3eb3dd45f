// Package hardware probes the host machine once at process start and
// reports what it found: CPU crypto extensions and memory headroom. It
// replaces the teacher's ASIC/CUDA/CGMiner device-file probing with the
// CPU-feature and memory probing this algorithm actually depends on, but
// keeps the teacher's "detect once into an immutable struct" shape from
// device_detector.go.
package hardware

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v3/mem"
)

// Capabilities describes what the running machine can accelerate. It is
// queried once and held immutable for the life of the process: the round
// loop's primitive dispatch table is built from it a single time, never
// re-checked per call.
type Capabilities struct {
	// AESNI is true when the CPU has a hardware AES instruction set
	// (AES-NI on x86, the ARMv8 Cryptography Extensions on arm64).
	AESNI bool

	// SHAExt is true when the CPU has hardware SHA-256 round instructions.
	SHAExt bool

	// LogicalCPUs is the number of logical CPUs runtime.NumCPU reports,
	// the same count the miner's default worker pool (one worker per
	// logical CPU) is sized by.
	LogicalCPUs int

	// AvailableMemoryBytes is free+cached system memory at detection time,
	// used to pre-flight scratchpad allocation before committing to
	// Chains*ScratchpadBytes per concurrent hash.
	AvailableMemoryBytes uint64

	// CPUBrand is a human-readable CPU identification string.
	CPUBrand string
}

// Detect runs hardware/OS introspection once and returns the resulting
// Capabilities. Callers should call this exactly once at startup and pass
// the result down rather than calling Detect repeatedly.
func Detect() *Capabilities {
	c := &Capabilities{
		AESNI:       cpuid.CPU.Supports(cpuid.AESNI),
		SHAExt:      cpuid.CPU.Supports(cpuid.SHA),
		LogicalCPUs: runtime.NumCPU(),
		CPUBrand:    cpuid.CPU.BrandName,
	}

	if !cpuid.CPU.Supports(cpuid.AESNI) {
		// arm64 exposes the crypto extension under a different feature bit.
		c.AESNI = cpuid.CPU.Supports(cpuid.AESARM)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		c.AvailableMemoryBytes = vm.Available
	}

	return c
}

// CanAfford reports whether detected memory comfortably fits numConcurrent
// simultaneous full hash computations (Chains scratchpads each).
func (c *Capabilities) CanAfford(scratchpadTotalBytes uint64, numConcurrent int) bool {
	if c.AvailableMemoryBytes == 0 {
		// Detection failed (containerized/restricted environment); don't
		// block on an unknown quantity. No pre-flight check runs in this
		// case, so no AllocationFailure is reported from here.
		return true
	}
	required := scratchpadTotalBytes * uint64(numConcurrent)
	// Leave headroom for everything else the process and OS need.
	return required < c.AvailableMemoryBytes/2
}

// Summary returns a human-readable detection report, in the same register
// as the teacher's GetDetectionSummary.
func (c *Capabilities) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hardware capability detection:\n")
	fmt.Fprintf(&b, "  CPU:              %s\n", c.CPUBrand)
	fmt.Fprintf(&b, "  Logical CPUs:     %d\n", c.LogicalCPUs)
	fmt.Fprintf(&b, "  AES hardware:     %t\n", c.AESNI)
	fmt.Fprintf(&b, "  SHA hardware:     %t\n", c.SHAExt)
	fmt.Fprintf(&b, "  Available memory: %d MiB\n", c.AvailableMemoryBytes/(1024*1024))
	return b.String()
}
