package hashing

import (
	"sync"

	"github.com/cyberia-to/uhash/pkg/hashing/core"
)

// scratchpadPool recycles the ScratchpadBytes buffers each chain uses for
// one hash, per spec §4.7's "reuse optimisation": a long-lived miner
// computing many hashes in a row would otherwise allocate and immediately
// discard CHAINS*ScratchpadBytes (2 MiB) on every call. Reuse is safe
// because initScratchpad below always overwrites every byte before the
// round loop reads any of them (§4.8's "ownership transitions are
// sequential: initialisation writes every byte before any round reads
// it") — a pad checked out of the pool never carries over state from
// whichever previous hash last used it.
var scratchpadPool = sync.Pool{
	New: func() any {
		buf := make([]byte, core.ScratchpadBytes)
		return &buf
	},
}

// getScratchpad checks out a ScratchpadBytes buffer from the pool.
func getScratchpad() []byte {
	return *scratchpadPool.Get().(*[]byte)
}

// putScratchpad returns a scratchpad to the pool for reuse by a later
// hash. Callers must not retain any reference to pad after calling this.
func putScratchpad(pad []byte) {
	scratchpadPool.Put(&pad)
}

// initScratchpad expands a 64-byte per-chain seed state into a pooled
// core.ScratchpadBytes scratchpad using repeated AES compression: each
// 64-byte block of the pad is the AES compression of the running state
// against the previous block, so the pad is deterministic in the seed and
// cannot be produced faster than sequentially (each block depends on the
// last). The returned pad must be released with putScratchpad once the
// caller is done with it.
func initScratchpad(seedState [core.StateBytes]byte) []byte {
	pad := getScratchpad()

	state := seedState
	block := seedState
	for i := 0; i < core.BlocksPerPad; i++ {
		core.AESCompress(&state, &block)
		copy(pad[i*core.BlockBytes:(i+1)*core.BlockBytes], state[:])
		block = state
	}

	return pad
}
