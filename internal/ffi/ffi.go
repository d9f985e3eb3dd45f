// Command ffi builds the C ABI surface for UniversalHash v4: a small set
// of cgo-exported entrypoints operating on flat byte buffers, intended to
// be built with `go build -buildmode=c-shared` and linked into a non-Go
// host process. It mirrors the teacher's uBPF bridge
// (pkg/hashing/methods/ubpf/ubpf.go) in its use of cgo and raw pointers,
// but exports Go functions to C instead of calling a C VM from Go.
package main

/*
#include <stdint.h>
#include <stddef.h>
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/cyberia-to/uhash/internal/miner"
	"github.com/cyberia-to/uhash/pkg/hashing"
	"github.com/cyberia-to/uhash/pkg/hashing/core"
	"github.com/cyberia-to/uhash/pkg/hashing/factory"
	"github.com/cyberia-to/uhash/pkg/hashing/hardware"
)

var (
	defaultHasher *hashing.Hasher
	defaultCaps   *hardware.Capabilities
)

func init() {
	defaultCaps = hardware.Detect()

	pf, err := factory.New(nil, defaultCaps)
	if err != nil {
		panic(err)
	}
	h, err := hashing.New(pf, hashing.Parallel)
	if err != nil {
		panic(err)
	}
	defaultHasher = h
}

// uhash_hash computes the 32-byte digest of the inLen bytes at in and
// writes it to the 32-byte buffer at out. Inputs of any length, including
// zero, are accepted. Returns 0 on success, -1 if hashing returns an error.
//
//export uhash_hash
func uhash_hash(in *C.uint8_t, inLen C.size_t, out *C.uint8_t) C.int {
	input := C.GoBytes(unsafe.Pointer(in), C.int(inLen))

	digest, err := defaultHasher.Hash(context.Background(), input)
	if err != nil {
		return -1
	}

	outSlice := unsafe.Slice((*byte)(out), 32)
	copy(outSlice, digest[:])
	return 0
}

// uhash_hash_batch computes count digests, one per inputLen-byte record
// packed contiguously at in, writing count*32 bytes of digests contiguously
// to out. Returns 0 on success, -1 if any single hash fails.
//
//export uhash_hash_batch
func uhash_hash_batch(in *C.uint8_t, inputLen C.size_t, count C.size_t, out *C.uint8_t) C.int {
	n := int(count)
	width := int(inputLen)

	inSlice := unsafe.Slice((*byte)(in), n*width)
	outSlice := unsafe.Slice((*byte)(out), n*32)

	for i := 0; i < n; i++ {
		record := inSlice[i*width : (i+1)*width]
		digest, err := defaultHasher.Hash(context.Background(), record)
		if err != nil {
			return -1
		}
		copy(outSlice[i*32:(i+1)*32], digest[:])
	}
	return 0
}

// uhash_mine_batch runs the single-threaded cooperative mining batch the
// algorithm's external interface calls mine_batch(start_nonce, stride,
// batch_size): it hashes up to batchSize canonical mining inputs built
// from (seed, address, timestamp), starting at startNonce and striding by
// stride, stopping as soon as one meets difficultyBits leading zero bits.
//
// On success (return 0), *outFound is 1 if a qualifying nonce was found
// within the batch (with *outHash and *outNonce set to the winning pair)
// or 0 if the batch was exhausted first; *outHashesTried is always the
// number of attempts made. Returns -2 if seedLen is not exactly 32,
// -3 if the host cannot afford the scratchpad footprint for this call,
// or -1 for any other failure (including cancellation, which this
// synchronous entrypoint never requests).
//
//export uhash_mine_batch
func uhash_mine_batch(
	seed *C.uint8_t, seedLen C.size_t,
	address *C.char, addressLen C.size_t,
	timestamp C.uint64_t,
	difficultyBits C.int,
	startNonce, stride, batchSize C.uint64_t,
	outFound *C.int, outHash *C.uint8_t, outNonce, outHashesTried *C.uint64_t,
) C.int {
	if err := miner.ValidateSeedLen(int(seedLen)); err != nil {
		return -2
	}

	var seedArr [32]byte
	copy(seedArr[:], C.GoBytes(unsafe.Pointer(seed), C.int(seedLen)))
	addr := C.GoStringN(address, C.int(addressLen))

	cfg := miner.Config{
		Seed:           seedArr,
		MinerAddress:   addr,
		DifficultyBits: int(difficultyBits),
		Timestamp:      uint64(timestamp),
		Workers:        1,
	}
	m, err := miner.New(cfg, defaultHasher, defaultCaps)
	if err != nil {
		if core.IsKind(err, core.AllocationFailure) {
			return -3
		}
		return -1
	}

	found, hash, nonce, tried, err := m.MineBatch(context.Background(), uint64(startNonce), uint64(stride), uint64(batchSize))
	if err != nil {
		return -1
	}

	*outHashesTried = C.uint64_t(tried)
	if !found {
		*outFound = 0
		return 0
	}

	*outFound = 1
	*outNonce = C.uint64_t(nonce)
	copy(unsafe.Slice((*byte)(outHash), 32), hash[:])
	return 0
}

func main() {}
