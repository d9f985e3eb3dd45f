package miner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/cyberia-to/uhash/pkg/hashing"
	"github.com/cyberia-to/uhash/pkg/hashing/core"
	"github.com/cyberia-to/uhash/pkg/hashing/hardware"
)

// Config holds the canonical mining-input parameters and scheduling knobs
// for a Miner.
type Config struct {
	Seed           [32]byte
	MinerAddress   string
	DifficultyBits int

	// Timestamp seeds the canonical mining input's timestamp field for
	// callers that drive MineBatch directly without ever calling Start
	// (which otherwise stamps it from time.Now() on first launch). Zero
	// means "let Start assign one when continuous mining begins".
	Timestamp uint64

	// Workers is the number of nonce-striding goroutines; <= 0 defaults to
	// one per logical CPU. New resolves this to its effective value before
	// returning, so Start and the allocation pre-flight always agree on
	// how many workers will run concurrently.
	Workers int

	// BatchSize is the number of hash attempts a worker runs between
	// cancellation checks — cancellation is observed at batch boundaries
	// only, so a worker never abandons a hash mid-computation.
	BatchSize int

	// QueueCapacity bounds the pending-proof queue; <= 0 means
	// effectively unbounded.
	QueueCapacity int
}

// Miner runs the continuous mining loop described by the algorithm's
// external interface: worker goroutines stride over the nonce space,
// assembling canonical mining inputs, hashing them, and pushing any proof
// meeting the difficulty target onto a shared queue. It also exposes
// MineBatch, the synchronous single-call surface an external cooperative
// scheduler (one that owns its own event loop instead of spawning Go
// workers) drives directly.
type Miner struct {
	cfg    Config
	hasher *hashing.Hasher
	tmpl   *hardware.Template
	queue  *ProofQueue
	rates  *HashrateRing

	mu        sync.Mutex
	timestamp uint64
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New builds a Miner. hasher must be non-nil and already configured with
// the primitive dispatch table to use. caps is the hardware capability
// snapshot used to pre-flight the worker pool's scratchpad footprint
// before committing to it; pass nil to have New call hardware.Detect()
// itself. New returns core.AllocationFailure if the detected machine
// cannot comfortably afford Chains*ScratchpadBytes for every worker the
// configuration would launch — surfaced here, before any scratchpad is
// allocated, rather than discovered mid-mine.
func New(cfg Config, hasher *hashing.Hasher, caps *hardware.Capabilities) (*Miner, error) {
	if caps == nil {
		caps = hardware.Detect()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if !caps.CanAfford(uint64(core.Chains*core.ScratchpadBytes), workers) {
		return nil, core.NewError(core.AllocationFailure, fmt.Sprintf(
			"cannot afford %d concurrent workers at ~%d MiB each (~%d MiB total), ~%d MiB available",
			workers, core.Chains*core.ScratchpadBytes/(1024*1024),
			workers*core.Chains*core.ScratchpadBytes/(1024*1024),
			caps.AvailableMemoryBytes/(1024*1024)))
	}
	cfg.Workers = workers

	return &Miner{
		cfg:       cfg,
		hasher:    hasher,
		tmpl:      hardware.NewTemplate(true),
		queue:     NewProofQueue(cfg.QueueCapacity),
		rates:     NewHashrateRing(64),
		timestamp: cfg.Timestamp,
	}, nil
}

// Proofs returns the queue proofs are published to.
func (m *Miner) Proofs() *ProofQueue { return m.queue }

// HashRate returns the current rolling hashes/second estimate.
func (m *Miner) HashRate() float64 { return m.rates.Rate() }

// Stats returns a snapshot of rolling mining statistics (hash rate, proofs
// found, attempts, last nonce tried), folded in by every worker batch.
func (m *Miner) Stats() hardware.MiningStats { return m.tmpl.Stats() }

// Start launches the worker pool. It returns immediately; call Stop (or
// cancel a parent context passed transitively) to end mining.
func (m *Miner) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	if m.timestamp == 0 {
		m.timestamp = uint64(time.Now().Unix())
	}
	workers := m.cfg.Workers
	m.mu.Unlock()

	for w := 0; w < workers; w++ {
		m.wg.Add(1)
		go m.runWorker(ctx, uint64(w), uint64(workers))
	}
}

// Stop signals all workers to finish their current batch and exit, then
// waits for them to do so.
func (m *Miner) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// Refresh rotates the miner onto a new seed and/or difficulty target,
// invalidating cached mining-input prefixes so the next batch picks up the
// new parameters.
func (m *Miner) Refresh(seed [32]byte, difficultyBits int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Seed = seed
	m.cfg.DifficultyBits = difficultyBits
	m.timestamp = uint64(time.Now().Unix())
	m.tmpl.ClearCache()
}

func (m *Miner) snapshot() (seed [32]byte, address string, bits int, timestamp uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Seed, m.cfg.MinerAddress, m.cfg.DifficultyBits, m.timestamp
}

func (m *Miner) runWorker(ctx context.Context, start, stride uint64) {
	defer m.wg.Done()

	nonce := start
	batchSize := m.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1024
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		seed, address, difficultyBits, timestamp := m.snapshot()
		batchStart := time.Now()

		var attempted uint64
		var proofsFound int
		for i := 0; i < batchSize; i++ {
			input := m.tmpl.Build(seed, address, timestamp, nonce)
			hash, err := m.hasher.Hash(ctx, input)
			if err != nil {
				// Hash only fails on cancellation: stop this worker
				// rather than spin on a cancelled context.
				return
			}
			attempted++

			if MeetsDifficulty(hash, difficultyBits) {
				proofsFound++
				m.queue.TryPush(Proof{
					Nonce:        nonce,
					Hash:         hash,
					Timestamp:    timestamp,
					HashesTried:  attempted,
					ElapsedNanos: uint64(time.Since(batchStart).Nanoseconds()),
				})
			}

			nonce += stride
		}

		m.rates.Add(attempted, time.Now())
		m.tmpl.UpdateStats(m.rates.Rate(), proofsFound, attempted, nonce-stride)
	}
}

// ValidateSeedLen reports core.InvalidInputLength if n is not exactly 32 —
// the seed length check spec §7 scopes to "when the miner is invoked".
// Go callers can't violate this (Config.Seed is a [32]byte), so this
// exists for boundaries that receive a seed as an untyped byte buffer,
// such as internal/ffi's uhash_mine_batch.
func ValidateSeedLen(n int) error {
	if n != 32 {
		return core.NewError(core.InvalidInputLength, fmt.Sprintf("seed must be 32 bytes, got %d", n))
	}
	return nil
}

// MineBatch runs the synchronous, externally-drivable batch surface the
// algorithm's external interface calls mine_batch(start_nonce, stride,
// batch_size): it hashes up to batchSize canonical mining inputs starting
// at startNonce and striding by stride, stopping as soon as one meets the
// current difficulty target. This is the single-threaded cooperative
// mining mode's entrypoint — a caller with its own event loop (or the cgo
// FFI boundary) drives mining one batch at a time without the goroutine
// worker pool Start spins up.
//
// found reports whether a qualifying nonce was reached within the batch;
// when true, hash and nonce are the winning pair. hashesTried is always
// the number of attempts made, counting the winning attempt if found is
// true. MineBatch does not push onto Proofs(): the caller owns the result
// directly, unlike the continuous Start/Stop worker pool.
func (m *Miner) MineBatch(ctx context.Context, startNonce, stride, batchSize uint64) (found bool, hash [32]byte, nonce uint64, hashesTried uint64, err error) {
	seed, address, difficultyBits, timestamp := m.snapshot()

	n := startNonce
	for hashesTried = 0; hashesTried < batchSize; hashesTried++ {
		if cerr := ctx.Err(); cerr != nil {
			return false, [32]byte{}, 0, hashesTried, core.NewError(core.CancellationRequested, "mine_batch cancelled", cerr.Error())
		}

		input := m.tmpl.Build(seed, address, timestamp, n)
		h, herr := m.hasher.Hash(ctx, input)
		if herr != nil {
			return false, [32]byte{}, 0, hashesTried, herr
		}

		if MeetsDifficulty(h, difficultyBits) {
			return true, h, n, hashesTried + 1, nil
		}

		n += stride
	}

	return false, [32]byte{}, 0, hashesTried, nil
}
