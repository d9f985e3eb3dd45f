package hardware

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"
)

// Template builds and caches the canonical mining input layout:
//
//	seed(32B) || miner_address(UTF-8) || timestamp_LE64 || nonce_LE64
//
// This replaces the teacher's PrepareAsicJob Bitcoin-header builder
// (bitcoin_header.go) with the layout this algorithm's miner interface
// actually specifies, keeping the same "prebuild the static prefix, vary
// only the nonce suffix per candidate" caching strategy.
type Template struct {
	enableCaching bool

	cacheMu     sync.RWMutex
	prefixCache map[string][]byte

	statsMu    sync.Mutex
	stats      *MiningStats
	lastUpdate time.Time
}

// NewTemplate creates a template builder, optionally caching the static
// (seed || address || timestamp) prefix across nonce attempts.
func NewTemplate(enableCache bool) *Template {
	return &Template{
		enableCaching: enableCache,
		prefixCache:   make(map[string][]byte),
	}
}

// Build assembles the canonical mining input for one nonce attempt.
func (t *Template) Build(seed [32]byte, minerAddress string, timestamp, nonce uint64) []byte {
	prefix := t.staticPrefix(seed, minerAddress, timestamp)

	buf := make([]byte, len(prefix)+8)
	copy(buf, prefix)
	binary.LittleEndian.PutUint64(buf[len(prefix):], nonce)
	return buf
}

// BuildBatch assembles canonical mining inputs for a contiguous run of
// nonces sharing the same seed/address/timestamp, reusing one static
// prefix across the whole batch.
func (t *Template) BuildBatch(seed [32]byte, minerAddress string, timestamp uint64, nonces []uint64) [][]byte {
	prefix := t.staticPrefix(seed, minerAddress, timestamp)

	inputs := make([][]byte, len(nonces))
	for i, nonce := range nonces {
		buf := make([]byte, len(prefix)+8)
		copy(buf, prefix)
		binary.LittleEndian.PutUint64(buf[len(prefix):], nonce)
		inputs[i] = buf
	}
	return inputs
}

func (t *Template) staticPrefix(seed [32]byte, minerAddress string, timestamp uint64) []byte {
	key := t.cacheKey(seed, minerAddress, timestamp)
	if t.enableCaching {
		t.cacheMu.RLock()
		cached, ok := t.prefixCache[key]
		t.cacheMu.RUnlock()
		if ok {
			return cached
		}
	}

	prefix := make([]byte, 32+len(minerAddress)+8)
	copy(prefix, seed[:])
	copy(prefix[32:], minerAddress)
	binary.LittleEndian.PutUint64(prefix[32+len(minerAddress):], timestamp)

	if t.enableCaching {
		t.cacheMu.Lock()
		t.prefixCache[key] = prefix
		t.cacheMu.Unlock()
	}
	return prefix
}

func (t *Template) cacheKey(seed [32]byte, minerAddress string, timestamp uint64) string {
	return fmt.Sprintf("%x:%s:%d", seed, minerAddress, timestamp)
}

// ClearCache drops all cached prefixes, used when the miner rotates to a
// new seed or difficulty.
func (t *Template) ClearCache() {
	if t.enableCaching {
		t.cacheMu.Lock()
		t.prefixCache = make(map[string][]byte)
		t.cacheMu.Unlock()
	}
}

// EffectiveNonce extracts the little-endian uint64 formed by the last 8
// bytes of a canonical mining input, per the algorithm's "effective nonce"
// definition: callers may pass inputs shorter than 8 bytes, in which case
// the value is zero-extended on the left.
func EffectiveNonce(input []byte) uint64 {
	if len(input) >= 8 {
		return binary.LittleEndian.Uint64(input[len(input)-8:])
	}
	var buf [8]byte
	copy(buf[:], input)
	return binary.LittleEndian.Uint64(buf[:])
}

// MiningStats tracks rolling miner performance, in the same spirit as the
// teacher's BitcoinMiningStats.
type MiningStats struct {
	HashRate     float64       `json:"hash_rate"`
	ProofsFound  int           `json:"proofs_found"`
	AttemptCount uint64        `json:"attempt_count"`
	LastNonce    uint64        `json:"last_nonce"`
	Elapsed      time.Duration `json:"elapsed"`
}

// UpdateStats folds in a new sample. Safe for concurrent use by multiple
// mining workers sharing one Template.
func (t *Template) UpdateStats(hashRate float64, proofsFound int, attempts uint64, lastNonce uint64) {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()

	if t.stats == nil {
		t.stats = &MiningStats{}
	}
	t.stats.HashRate = hashRate
	t.stats.ProofsFound += proofsFound
	t.stats.AttemptCount += attempts
	t.stats.LastNonce = lastNonce
	if !t.lastUpdate.IsZero() {
		t.stats.Elapsed = time.Since(t.lastUpdate)
	}
	t.lastUpdate = time.Now()
}

// Stats returns a copy of the current mining statistics.
func (t *Template) Stats() MiningStats {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()

	if t.stats == nil {
		return MiningStats{}
	}
	return *t.stats
}
