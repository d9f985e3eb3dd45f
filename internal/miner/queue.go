package miner

import "context"

// Proof is a nonce found to satisfy the current difficulty target, the
// Proof record described by the algorithm's external interface:
// {hash, nonce, timestamp, hashes_tried, elapsed_ns}.
type Proof struct {
	Nonce     uint64
	Hash      [32]byte
	Timestamp uint64

	// HashesTried is the number of hash attempts made in the batch that
	// produced this proof, counting the successful attempt itself.
	HashesTried uint64

	// ElapsedNanos is the wall-clock time, in nanoseconds, spent on that
	// batch up to and including the attempt that produced this proof.
	ElapsedNanos uint64
}

// ProofQueue is a many-producer, single-consumer queue of discovered
// proofs: every worker goroutine pushes, the caller driving the miner
// drains. Backed by a buffered channel, which already gives Go's runtime
// the MPSC semantics the algorithm's external interface calls for.
type ProofQueue struct {
	ch chan Proof
}

// defaultProofQueueCapacity is used when capacity <= 0 is requested
// ("unbounded"): a queue backed by a Go channel cannot grow without limit,
// so this picks a capacity large enough that a caller draining at a normal
// cadence will never observe backpressure in practice.
const defaultProofQueueCapacity = 1 << 16

// NewProofQueue creates a proof queue. capacity <= 0 requests an
// effectively unbounded queue.
func NewProofQueue(capacity int) *ProofQueue {
	if capacity <= 0 {
		capacity = defaultProofQueueCapacity
	}
	return &ProofQueue{ch: make(chan Proof, capacity)}
}

// TryPush enqueues a proof without blocking, returning false if the queue
// is full — a full bounded queue means proofs are being produced faster
// than they're drained, which callers may treat as a backpressure signal
// rather than a fatal error.
func (q *ProofQueue) TryPush(p Proof) bool {
	select {
	case q.ch <- p:
		return true
	default:
		return false
	}
}

// Pop blocks for the next proof, or returns ctx.Err() if ctx is cancelled
// first.
func (q *ProofQueue) Pop(ctx context.Context) (Proof, error) {
	select {
	case p := <-q.ch:
		return p, nil
	case <-ctx.Done():
		return Proof{}, ctx.Err()
	}
}

// Drain returns all proofs currently queued without blocking.
func (q *ProofQueue) Drain() []Proof {
	var out []Proof
	for {
		select {
		case p := <-q.ch:
			out = append(out, p)
		default:
			return out
		}
	}
}
