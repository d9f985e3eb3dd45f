package core

import "encoding/binary"

// blake3IV is the BLAKE3 initialization vector, identical to SHA-256's.
var blake3IV = [8]uint32{
	0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
	0x510E527F, 0x9B05688C, 0x1F83D9AB, 0x5BE0CD19,
}

// blake3MsgPermutation is applied to the message schedule between each of
// the algorithm's 7 rounds.
var blake3MsgPermutation = [16]int{2, 6, 3, 10, 7, 0, 4, 13, 1, 11, 12, 5, 9, 14, 15, 8}

func rotr32b3(x uint32, n uint) uint32 { return x>>n | x<<(32-n) }

func blake3G(v *[16]uint32, a, b, c, d int, mx, my uint32) {
	v[a] = v[a] + v[b] + mx
	v[d] = rotr32b3(v[d]^v[a], 16)
	v[c] = v[c] + v[d]
	v[b] = rotr32b3(v[b]^v[c], 12)
	v[a] = v[a] + v[b] + my
	v[d] = rotr32b3(v[d]^v[a], 8)
	v[c] = v[c] + v[d]
	v[b] = rotr32b3(v[b]^v[c], 7)
}

// blake3Compress is the 7-round BLAKE3 compression function with the
// counter and flags words fixed at zero, operating on a 32-byte chaining
// value and a 64-byte message block, and producing the full 16-word
// (64-byte) compression output — not the 32-byte truncated chaining value
// used internally by the BLAKE3 tree. zeebo/blake3 (and every other BLAKE3
// library in the pack) only exposes the tree-hash API, never this raw,
// zero-flag single-call form, so it is hand-rolled from the BLAKE3
// specification (section 3.2, "The Compression Function").
func blake3Compress(cv *[8]uint32, block *[64]byte) [16]uint32 {
	var m [16]uint32
	for i := 0; i < 16; i++ {
		m[i] = binary.LittleEndian.Uint32(block[i*4:])
	}

	v := [16]uint32{
		cv[0], cv[1], cv[2], cv[3], cv[4], cv[5], cv[6], cv[7],
		blake3IV[0], blake3IV[1], blake3IV[2], blake3IV[3],
		0, 0, // counter_low, counter_high: fixed at zero
		0, // block_len: fixed at zero per spec's "zero flags/counter" form
		0, // flags: fixed at zero
	}

	msg := m
	for round := 0; round < 7; round++ {
		blake3G(&v, 0, 4, 8, 12, msg[0], msg[1])
		blake3G(&v, 1, 5, 9, 13, msg[2], msg[3])
		blake3G(&v, 2, 6, 10, 14, msg[4], msg[5])
		blake3G(&v, 3, 7, 11, 15, msg[6], msg[7])
		blake3G(&v, 0, 5, 10, 15, msg[8], msg[9])
		blake3G(&v, 1, 6, 11, 12, msg[10], msg[11])
		blake3G(&v, 2, 7, 8, 13, msg[12], msg[13])
		blake3G(&v, 3, 4, 9, 14, msg[14], msg[15])

		if round < 6 {
			var permuted [16]uint32
			for i, p := range blake3MsgPermutation {
				permuted[i] = msg[p]
			}
			msg = permuted
		}
	}

	var out [16]uint32
	for i := 0; i < 8; i++ {
		out[i] = v[i] ^ v[i+8]
		out[i+8] = v[i+8] ^ cv[i]
	}
	return out
}

// BLAKE3Compress mixes a 64-byte state with a 64-byte block: the first 32
// bytes of state are read as the BLAKE3 chaining value (eight little-endian
// uint32 words); the full 16-word compression output replaces the entire
// 64-byte state.
func BLAKE3Compress(state, block *[StateBytes]byte) {
	var cv [8]uint32
	for i := 0; i < 8; i++ {
		cv[i] = binary.LittleEndian.Uint32(state[i*4:])
	}

	out := blake3Compress(&cv, block)

	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(state[i*4:], out[i])
	}
}
