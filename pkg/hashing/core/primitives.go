package core

// CompressFunc is the common shape of all three rotating primitives:
// (state, block) -> state, mutating state in place.
type CompressFunc func(state, block *[StateBytes]byte)

// DefaultPrimitives maps each PrimitiveID to its compression function. It
// is a table rather than a per-call switch: Compress looks up
// table[Select(...)] once per round and calls through the function value,
// matching the "detect once, expose a function pointer, no per-call
// feature checks" dispatch this algorithm requires.
var DefaultPrimitives = [Primitives]CompressFunc{
	PrimitiveAES:    AESCompress,
	PrimitiveSHA256: SHA256Compress,
	PrimitiveBLAKE3: BLAKE3Compress,
}

// Compress runs the primitive selected by Select(effectiveNonce, chain,
// round) against state and block.
func Compress(table *[Primitives]CompressFunc, effectiveNonce uint64, chain, round int, state, block *[StateBytes]byte) {
	table[Select(effectiveNonce, chain, round)](state, block)
}
