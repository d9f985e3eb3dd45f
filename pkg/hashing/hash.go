package hashing

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/cyberia-to/uhash/pkg/hashing/core"
)

// deriveSeed computes the per-chain 32-byte seed
//
//	chain_seed[c] = BLAKE3( input ‖ LE64(effective_nonce XOR (c * GOLDEN)) )
//
// per §4.2 — this exact formula (XOR, not concatenation, of effective_nonce
// and c*GOLDEN; LE64 encoding; BLAKE3 over input with that suffix appended)
// is part of the wire contract and must not be altered. The initial 64-byte
// working state for the round loop is then two copies of chain_seed[c],
// per §4.3 step 3.
func deriveSeed(input []byte, effectiveNonce uint64) [core.Chains][core.StateBytes]byte {
	var seeds [core.Chains][core.StateBytes]byte
	for c := 0; c < core.Chains; c++ {
		suffix := effectiveNonce ^ (uint64(c) * core.Golden)

		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], suffix)

		chainSeed := blake3Sum(append(append([]byte(nil), input...), buf[:]...))

		copy(seeds[c][:32], chainSeed[:])
		copy(seeds[c][32:], chainSeed[:])
	}

	return seeds
}

// blake3Sum computes the 32-byte BLAKE3 digest of data.
func blake3Sum(data []byte) [32]byte {
	hasher := blake3.New()
	hasher.Write(data)
	sum := hasher.Sum(nil)

	var out [32]byte
	copy(out[:], sum)
	return out
}

// combine folds the four chains' final states into the 32-byte digest:
// SHA-256 over the concatenation of all four 64-byte states, then a BLAKE3
// pass over that SHA-256 output produces the final digest. Chains are
// combined positionally (chain 0's state always occupies the same byte
// range) so the result does not depend on the order the chains actually
// finished executing in.
func combine(states [core.Chains][core.StateBytes]byte) [32]byte {
	var concat [core.Chains * core.StateBytes]byte
	for c := 0; c < core.Chains; c++ {
		copy(concat[c*core.StateBytes:], states[c][:])
	}

	intermediate := sha256.Sum256(concat[:])
	return blake3Sum(intermediate[:])
}
