package miner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cyberia-to/uhash/pkg/hashing/core"
)

func TestMeetsDifficulty(t *testing.T) {
	var allZero [32]byte
	var firstByteZero [32]byte
	firstByteZero[0] = 0x00
	firstByteZero[1] = 0xff

	var noLeadingZeros [32]byte
	noLeadingZeros[0] = 0xff

	cases := []struct {
		name string
		hash [32]byte
		bits int
		want bool
	}{
		{"d=0 always true", noLeadingZeros, 0, true},
		{"d=256 requires all-zero", allZero, 256, true},
		{"d=256 fails on any set bit", firstByteZero, 256, false},
		{"first byte zero meets d=8", firstByteZero, 8, true},
		{"first byte zero fails d=9", firstByteZero, 9, false},
		{"no leading zeros fails d=1", noLeadingZeros, 1, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, MeetsDifficulty(c.hash, c.bits))
		})
	}
}

func TestMeetsDifficultyBitBoundary(t *testing.T) {
	// 0000_0001 has 7 leading zero bits: meets d<=7, fails d=8.
	var hash [32]byte
	hash[0] = 0x01

	assert.True(t, MeetsDifficulty(hash, 7))
	assert.False(t, MeetsDifficulty(hash, 8))
}

func TestValidateSeedLen(t *testing.T) {
	assert.NoError(t, ValidateSeedLen(32))

	err := ValidateSeedLen(31)
	assert.Error(t, err)
	assert.True(t, core.IsKind(err, core.InvalidInputLength))
}
