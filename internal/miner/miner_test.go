package miner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cyberia-to/uhash/pkg/hashing"
	"github.com/cyberia-to/uhash/pkg/hashing/core"
	"github.com/cyberia-to/uhash/pkg/hashing/factory"
	"github.com/cyberia-to/uhash/pkg/hashing/hardware"
)

func newTestMiner(t *testing.T, workers, batchSize int) *Miner {
	t.Helper()
	pf, err := factory.New(nil, nil)
	require.NoError(t, err)
	h, err := hashing.New(pf, hashing.Sequential)
	require.NoError(t, err)

	cfg := Config{
		MinerAddress:   "test-miner",
		DifficultyBits: 0, // every hash "meets" difficulty 0, so every attempt yields a proof
		Workers:        workers,
		BatchSize:      batchSize,
	}
	m, err := New(cfg, h, nil)
	require.NoError(t, err)
	return m
}

// TestNoncePartitionDisjoint exercises spec §8's "nonce space partitioning"
// property: with N workers striding by N, no nonce is evaluated twice. With
// DifficultyBits=0 every hash attempt produces a proof, so the set of
// proof nonces over a short run stands in for the set of evaluated nonces.
func TestNoncePartitionDisjoint(t *testing.T) {
	m := newTestMiner(t, 3, 2)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	seen := make(map[uint64]bool)
	deadline := time.After(2 * time.Second)
loop:
	for len(seen) < 12 {
		select {
		case <-deadline:
			break loop
		default:
		}
		p, err := m.Proofs().Pop(ctx)
		if err != nil {
			break
		}
		require.Falsef(t, seen[p.Nonce], "nonce %d evaluated more than once across workers", p.Nonce)
		seen[p.Nonce] = true
	}

	cancel()
	m.Stop()

	require.GreaterOrEqual(t, len(seen), 3, "expected at least a few distinct proofs before the deadline")
}

// TestContinuousMiningDoesNotPauseOnProof exercises spec §4.7's "continuous
// mining" requirement: finding a proof must not stop the worker from
// attempting the next nonce in its stride.
func TestContinuousMiningDoesNotPauseOnProof(t *testing.T) {
	m := newTestMiner(t, 1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	first, err := m.Proofs().Pop(ctx)
	require.NoError(t, err)

	second, err := m.Proofs().Pop(ctx)
	require.NoError(t, err)

	require.NotEqual(t, first.Nonce, second.Nonce, "worker must keep advancing its nonce stride after a proof")
}

// TestNewRejectsInsufficientMemory exercises the AllocationFailure
// pre-flight: a Capabilities snapshot that cannot afford even one worker's
// worth of scratchpads must surface the error from New rather than letting
// the miner start and fail opaquely later.
func TestNewRejectsInsufficientMemory(t *testing.T) {
	pf, err := factory.New(nil, nil)
	require.NoError(t, err)
	h, err := hashing.New(pf, hashing.Sequential)
	require.NoError(t, err)

	starved := &hardware.Capabilities{AvailableMemoryBytes: 1024} // 1 KiB: far below one scratchpad set
	_, err = New(Config{Workers: 1}, h, starved)
	require.Error(t, err)
	require.True(t, core.IsKind(err, core.AllocationFailure), "expected AllocationFailure, got %v", err)
}

// TestMineBatchFindsProofWithinBatch exercises the synchronous
// mine_batch(start_nonce, stride, batch_size) surface: with difficulty 0
// every attempt qualifies, so the very first nonce in the batch must be
// reported found with hashes_tried == 1.
func TestMineBatchFindsProofWithinBatch(t *testing.T) {
	m := newTestMiner(t, 1, 4)

	found, hash, nonce, tried, err := m.MineBatch(context.Background(), 7, 3, 16)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(7), nonce)
	require.Equal(t, uint64(1), tried)
	require.NotEqual(t, [32]byte{}, hash)
}

// TestMineBatchExhaustsWithoutFinding exercises the {found:false,
// hashes_tried} branch: an unattainable difficulty must run the full
// batch and report found=false with hashes_tried == batch_size.
func TestMineBatchExhaustsWithoutFinding(t *testing.T) {
	m := newTestMiner(t, 1, 4)
	m.cfg.DifficultyBits = 256 // unattainable

	found, _, _, tried, err := m.MineBatch(context.Background(), 0, 1, 8)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, uint64(8), tried)
}

// TestProofRecordHasHashesTriedAndElapsed pins the Proof record shape
// {hash, nonce, timestamp, hashes_tried, elapsed_ns}: both fields must be
// populated by the continuous worker loop, not left at their zero values.
func TestProofRecordHasHashesTriedAndElapsed(t *testing.T) {
	m := newTestMiner(t, 1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	proof, err := m.Proofs().Pop(ctx)
	require.NoError(t, err)
	require.Greater(t, proof.HashesTried, uint64(0))
	require.Greater(t, proof.ElapsedNanos, uint64(0))
}

func TestRefreshRotatesSeed(t *testing.T) {
	m := newTestMiner(t, 1, 4)
	m.cfg.DifficultyBits = 256 // unattainable: no proofs before we inspect state

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	newSeed := [32]byte{1, 2, 3}
	m.Refresh(newSeed, 10)

	seed, _, bits, _ := m.snapshot()
	require.Equal(t, newSeed, seed)
	require.Equal(t, 10, bits)

	cancel()
	m.Stop()
}
