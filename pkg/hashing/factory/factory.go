// Package factory builds, once per process, the dispatch table for the
// three rotating compression primitives. It keeps the teacher's
// HashMethodFactory shape (detect hardware, build a method table, expose a
// detection report) but applies it to core.PrimitiveID dispatch instead of
// ASIC/CUDA/uBPF method selection. Each primitive has a single portable Go
// implementation; the detected hardware instructions are reported, not
// used.
package factory

import (
	"fmt"

	"github.com/cyberia-to/uhash/pkg/hashing/core"
	"github.com/cyberia-to/uhash/pkg/hashing/hardware"
)

// Config controls primitive selection.
type Config struct {
	// RequireHardwareAES, when true, causes New to return an error when
	// the CPU lacks AES-NI/ARM crypto extensions. It does not change which
	// AES implementation runs: that is always core.AESCompress.
	RequireHardwareAES bool
}

// DefaultConfig returns a permissive configuration that requires no
// hardware instruction set.
func DefaultConfig() *Config {
	return &Config{RequireHardwareAES: false}
}

// PrimitiveFactory builds and holds the dispatch table core.Compress reads
// from during the round loop. It is built once at startup from a single
// hardware.Capabilities snapshot; nothing in the hot path re-detects.
type PrimitiveFactory struct {
	config  *Config
	caps    *hardware.Capabilities
	table   [core.Primitives]core.CompressFunc
	methods map[core.PrimitiveID]*MethodStatus
}

// MethodStatus describes one primitive's entry in the dispatch table,
// mirroring the teacher's MethodStatus shape. HWAccel reports whether the
// CPU offers hardware instructions for that primitive; the table entry is
// the portable Go implementation either way, since no hardware path exists.
type MethodStatus struct {
	Name        string `json:"name"`
	HWAccel     bool   `json:"hw_accel"`
	Description string `json:"description"`
}

// New builds a PrimitiveFactory from detected hardware capabilities. Pass
// nil to have it call hardware.Detect() itself.
func New(config *Config, caps *hardware.Capabilities) (*PrimitiveFactory, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if caps == nil {
		caps = hardware.Detect()
	}

	f := &PrimitiveFactory{
		config:  config,
		caps:    caps,
		methods: make(map[core.PrimitiveID]*MethodStatus),
	}

	if config.RequireHardwareAES && !caps.AESNI {
		return nil, fmt.Errorf("factory: hardware AES required but not detected on %s", caps.CPUBrand)
	}

	if !caps.CanAfford(core.Chains*core.ScratchpadBytes, 1) {
		return nil, core.NewError(core.AllocationFailure, fmt.Sprintf(
			"insufficient memory for even one concurrent hash: need ~%d MiB, have ~%d MiB available",
			core.Chains*core.ScratchpadBytes/(1024*1024), caps.AvailableMemoryBytes/(1024*1024)))
	}

	f.table[core.PrimitiveAES] = core.AESCompress
	f.methods[core.PrimitiveAES] = &MethodStatus{
		Name:        "AES",
		HWAccel:     caps.AESNI,
		Description: hwOrSoftware(caps.AESNI, "portable software AES round transform (AES-NI/ARM crypto extension detected, not used)", "portable software AES round transform"),
	}

	f.table[core.PrimitiveSHA256] = core.SHA256Compress
	f.methods[core.PrimitiveSHA256] = &MethodStatus{
		Name:        "SHA-256",
		HWAccel:     caps.SHAExt,
		Description: hwOrSoftware(caps.SHAExt, "portable software SHA-256 round function (SHA extension instructions detected, not used)", "portable software SHA-256 round function"),
	}

	f.table[core.PrimitiveBLAKE3] = core.BLAKE3Compress
	f.methods[core.PrimitiveBLAKE3] = &MethodStatus{
		Name:        "BLAKE3",
		HWAccel:     false,
		Description: "portable software BLAKE3 compression (no hardware BLAKE3 extension exists)",
	}

	return f, nil
}

func hwOrSoftware(hw bool, hwDesc, swDesc string) string {
	if hw {
		return hwDesc
	}
	return swDesc
}

// Table returns the primitive dispatch table to pass to core.Compress.
func (f *PrimitiveFactory) Table() *[core.Primitives]core.CompressFunc {
	return &f.table
}

// Capabilities returns the hardware snapshot this factory was built from.
func (f *PrimitiveFactory) Capabilities() *hardware.Capabilities {
	return f.caps
}

// Report describes the selected implementation for every primitive, in the
// same spirit as the teacher's GetDetectionReport.
func (f *PrimitiveFactory) Report() []*MethodStatus {
	report := make([]*MethodStatus, 0, len(f.methods))
	for _, id := range []core.PrimitiveID{core.PrimitiveAES, core.PrimitiveSHA256, core.PrimitiveBLAKE3} {
		report = append(report, f.methods[id])
	}
	return report
}
