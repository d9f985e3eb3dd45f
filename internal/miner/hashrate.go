package miner

import (
	"sync"
	"time"
)

// hashrateSample records hashes attempted during one reporting interval.
type hashrateSample struct {
	at     time.Time
	hashes uint64
}

// HashrateRing is a fixed-capacity ring buffer of recent hashrate samples.
// Rate() reports hashes/second over whatever window is currently buffered,
// so short-lived spikes age out instead of permanently skewing the
// reported rate — the same rolling-window idea as the teacher's
// vHasherSimulator stats, implemented as a ring instead of an EMA.
type HashrateRing struct {
	mu      sync.Mutex
	samples []hashrateSample
	cap     int
	next    int
	filled  bool
}

// NewHashrateRing creates a ring holding up to capacity samples.
func NewHashrateRing(capacity int) *HashrateRing {
	if capacity <= 0 {
		capacity = 32
	}
	return &HashrateRing{samples: make([]hashrateSample, capacity), cap: capacity}
}

// Add records a batch of hashes completed at the given time.
func (r *HashrateRing) Add(hashes uint64, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples[r.next] = hashrateSample{at: at, hashes: hashes}
	r.next = (r.next + 1) % r.cap
	if r.next == 0 {
		r.filled = true
	}
}

// Rate returns hashes/second averaged over the buffered window.
func (r *HashrateRing) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.next
	if r.filled {
		n = r.cap
	}
	if n == 0 {
		return 0
	}

	var totalHashes uint64
	var earliest, latest time.Time
	for i := 0; i < n; i++ {
		s := r.samples[i]
		totalHashes += s.hashes
		if earliest.IsZero() || s.at.Before(earliest) {
			earliest = s.at
		}
		if s.at.After(latest) {
			latest = s.at
		}
	}

	elapsed := latest.Sub(earliest).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(totalHashes) / elapsed
}
