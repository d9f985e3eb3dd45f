package miner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProofQueueTryPushAndDrain(t *testing.T) {
	q := NewProofQueue(4)

	for i := 0; i < 3; i++ {
		ok := q.TryPush(Proof{Nonce: uint64(i)})
		require.True(t, ok)
	}

	drained := q.Drain()
	require.Len(t, drained, 3)
	for i, p := range drained {
		assert.Equal(t, uint64(i), p.Nonce)
	}

	assert.Empty(t, q.Drain(), "queue should be empty after draining")
}

func TestProofQueueTryPushFailsWhenFull(t *testing.T) {
	q := NewProofQueue(1)

	assert.True(t, q.TryPush(Proof{Nonce: 1}))
	assert.False(t, q.TryPush(Proof{Nonce: 2}), "TryPush should signal backpressure on a full bounded queue")
}

func TestProofQueuePopBlocksUntilCancelled(t *testing.T) {
	q := NewProofQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProofQueuePopReturnsPushedProof(t *testing.T) {
	q := NewProofQueue(1)
	q.TryPush(Proof{Nonce: 42})

	p, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), p.Nonce)
}
