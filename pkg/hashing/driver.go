// Package hashing implements the UniversalHash v4 memory-hard hash
// function: per-chain scratchpad initialization, the sequential round
// loop, and the parallel/sequential-cooperative drivers that run all four
// chains and combine their results into the final 32-byte digest.
package hashing

import (
	"context"
	"encoding/binary"

	"golang.org/x/sync/errgroup"

	"github.com/cyberia-to/uhash/pkg/hashing/core"
	"github.com/cyberia-to/uhash/pkg/hashing/factory"
)

// ExecutionMode selects how the four chains are scheduled.
type ExecutionMode int

const (
	// Parallel runs one goroutine per chain, joined with errgroup — the
	// "native threads" execution mode.
	Parallel ExecutionMode = iota

	// Sequential runs the chains one after another on the calling
	// goroutine — the "single-threaded cooperative" mode used by runtimes
	// without real OS threads (WASM, browser workers). It must produce a
	// byte-identical digest to Parallel for the same input.
	Sequential
)

// Hasher computes UniversalHash v4 digests using a fixed primitive
// dispatch table, selected once at construction.
type Hasher struct {
	table *[core.Primitives]core.CompressFunc
	mode  ExecutionMode
}

// New builds a Hasher. Pass a nil *factory.PrimitiveFactory to have one
// built from freshly detected hardware capabilities.
func New(pf *factory.PrimitiveFactory, mode ExecutionMode) (*Hasher, error) {
	if pf == nil {
		var err error
		pf, err = factory.New(nil, nil)
		if err != nil {
			return nil, err
		}
	}
	return &Hasher{table: pf.Table(), mode: mode}, nil
}

// Hash computes the 32-byte UniversalHash v4 digest of input. Per §3/§8,
// the pure hash function accepts any length, including zero: shorter
// inputs are zero-extended when forming the effective nonce by
// effectiveNonceOf. core.InvalidInputLength is reserved for the
// miner-invocation surface (internal/miner), which requires the canonical
// mining-input framing to be at least 48 bytes; it is never raised here.
func (h *Hasher) Hash(ctx context.Context, input []byte) ([32]byte, error) {
	effectiveNonce := effectiveNonceOf(input)
	seeds := deriveSeed(input, effectiveNonce)

	var states [core.Chains][core.StateBytes]byte

	switch h.mode {
	case Sequential:
		for c := 0; c < core.Chains; c++ {
			if err := ctx.Err(); err != nil {
				return [32]byte{}, core.NewError(core.CancellationRequested, "hash cancelled", err.Error())
			}
			states[c] = runChain(effectiveNonce, c, seeds[c], h.table)
		}

	case Parallel:
		g, gctx := errgroup.WithContext(ctx)
		for c := 0; c < core.Chains; c++ {
			c := c
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				states[c] = runChain(effectiveNonce, c, seeds[c], h.table)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return [32]byte{}, core.NewError(core.CancellationRequested, "hash cancelled", err.Error())
		}
	}

	return combine(states), nil
}

// effectiveNonceOf returns the little-endian uint64 formed from the last 8
// bytes of input, zero-extending on the left for shorter inputs — the same
// definition the external mining interface uses, kept independent of
// hardware.EffectiveNonce so pkg/hashing has no import-cycle dependency on
// pkg/hashing/hardware.
func effectiveNonceOf(input []byte) uint64 {
	if len(input) >= 8 {
		return binary.LittleEndian.Uint64(input[len(input)-8:])
	}
	var buf [8]byte
	copy(buf[:], input)
	return binary.LittleEndian.Uint64(buf[:])
}
