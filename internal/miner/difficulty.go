// Package miner implements the continuous mining loop: nonce striding
// across worker goroutines, the leading-zero-bits difficulty predicate, a
// bounded MPSC proof queue, and a rolling hashrate sample ring. Its
// worker-pool/batch/queue shape is grounded on the teacher's
// BitcoinMiningStats + PrepareAsicJobBatch pairing (pkg/hashing/hardware),
// adapted from "mine one ASIC batch" to "mine one nonce batch against the
// software hasher".
package miner

import "math/bits"

// MeetsDifficulty reports whether hash has at least targetBits leading
// zero bits when read big-endian, per the canonical difficulty predicate.
func MeetsDifficulty(hash [32]byte, targetBits int) bool {
	return leadingZeroBits(hash) >= targetBits
}

// leadingZeroBits counts leading zero bits across a big-endian byte string.
func leadingZeroBits(hash [32]byte) int {
	count := 0
	for _, b := range hash {
		if b == 0 {
			count += 8
			continue
		}
		count += bits.LeadingZeros8(b)
		break
	}
	return count
}
