package hashing

import (
	"encoding/binary"
	"math/bits"

	"github.com/cyberia-to/uhash/pkg/hashing/core"
)

// runChain executes the Rounds-long memory-hard loop for a single chain and
// returns its final 64-byte state.
//
// Each round derives a scratchpad address from the current state and the
// round counter, reads the 64-byte block at that address, compresses state
// against it with the primitive selected by
// core.Select(effectiveNonce, chain, round), then writes the new state back
// to the same scratchpad address that was read — the "write-back-to-source"
// rule that makes later rounds depend on earlier rounds' outputs and
// prevents precomputing the pad independently of the round loop. Deriving
// the write address from the post-compress state instead would decouple
// the write from the read, which the algorithm forbids.
func runChain(effectiveNonce uint64, chain int, seedState [core.StateBytes]byte, table *[core.Primitives]core.CompressFunc) [core.StateBytes]byte {
	pad := initScratchpad(seedState)
	defer putScratchpad(pad)
	state := seedState

	for round := 0; round < core.Rounds; round++ {
		addr := deriveAddress(&state, round)
		blockOff := addr * core.BlockBytes

		var block [core.StateBytes]byte
		copy(block[:], pad[blockOff:blockOff+core.BlockBytes])

		core.Compress(table, effectiveNonce, chain, round, &state, &block)

		copy(pad[blockOff:blockOff+core.BlockBytes], state[:])
	}

	return state
}

// deriveAddress implements the address formula:
//
//	addr = (load_le64(state,0) ^ load_le64(state,8)) ^ rotl64(round,13) ^ (round*ADDR_MIX) mod BlocksPerPad
//
// round and round*ADDR_MIX wrap in uint64 arithmetic, which is deliberate
// and part of the wire contract (§9).
func deriveAddress(state *[core.StateBytes]byte, round int) int {
	lo := binary.LittleEndian.Uint64(state[0:8])
	hi := binary.LittleEndian.Uint64(state[8:16])
	r := uint64(round)
	v := (lo ^ hi) ^ bits.RotateLeft64(r, 13) ^ (r * core.AddrMix)
	return int(v % core.BlocksPerPad)
}
