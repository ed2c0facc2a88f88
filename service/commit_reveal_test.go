package service

import (
	"testing"

	"gemplay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitMove_Deterministic(t *testing.T) {
	hash := CommitMove(models.MoveRock, "salt-1")

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, CommitMove(models.MoveRock, "salt-1"))
	assert.NotEqual(t, hash, CommitMove(models.MovePaper, "salt-1"))
	assert.NotEqual(t, hash, CommitMove(models.MoveRock, "salt-2"))
}

func TestVerifyMove(t *testing.T) {
	hash := CommitMove(models.MoveScissors, "abc")

	assert.True(t, VerifyMove(models.MoveScissors, "abc", hash))
	assert.False(t, VerifyMove(models.MoveRock, "abc", hash))
	assert.False(t, VerifyMove(models.MoveScissors, "abd", hash))
	assert.False(t, VerifyMove(models.MoveScissors, "abc", "not-a-hash"))
}

func TestNewSalt_UniqueAndHex(t *testing.T) {
	first, err := NewSalt()
	require.NoError(t, err)
	second, err := NewSalt()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestCommitmentFor_SelfConsistent(t *testing.T) {
	commitment, err := CommitmentFor(models.MovePaper)
	require.NoError(t, err)

	assert.Equal(t, models.MovePaper, commitment.Move)
	assert.True(t, VerifyMove(commitment.Move, commitment.Salt, commitment.Hash))
}

func TestNewCommitment_FreshSaltEveryTime(t *testing.T) {
	rng := NewSeededRand(7)

	first, err := NewCommitment(rng)
	require.NoError(t, err)
	second, err := NewCommitment(rng)
	require.NoError(t, err)

	assert.True(t, first.Move.IsValid())
	assert.True(t, VerifyMove(first.Move, first.Salt, first.Hash))
	// Even identical moves never reuse a salt, so the hashes differ.
	assert.NotEqual(t, first.Hash, second.Hash)
	assert.NotEqual(t, first.Salt, second.Salt)
}
