package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"gemplay/models"
)

// Commitment is a committed move: the move itself, the random salt and the
// hash published before the opponent acts. The server holds all three;
// the hash exists for the audit trail and instant settlement, not for an
// adversarial reveal round-trip.
type Commitment struct {
	Move models.Move
	Salt string
	Hash string
}

// CommitMove produces the 64-hex-character digest of a move and salt.
func CommitMove(move models.Move, salt string) string {
	sum := sha256.Sum256([]byte(string(move) + ":" + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyMove checks a move and salt against a previously recorded hash.
// Run defensively at settlement even though the server generated all three.
func VerifyMove(move models.Move, salt, hash string) bool {
	computed := CommitMove(move, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// NewSalt returns 32 cryptographically random bytes, hex encoded.
func NewSalt() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// CommitmentFor commits the given move under a fresh salt.
func CommitmentFor(move models.Move) (*Commitment, error) {
	salt, err := NewSalt()
	if err != nil {
		return nil, err
	}
	return &Commitment{
		Move: move,
		Salt: salt,
		Hash: CommitMove(move, salt),
	}, nil
}

// NewCommitment commits a uniformly random move under a fresh salt. Used at
// game creation when the creator lets the house pick, and whenever a
// recycled game needs its commitment replaced so nothing leaks across
// attempts.
func NewCommitment(rng Rand) (*Commitment, error) {
	move := models.Moves[rng.Intn(len(models.Moves))]
	return CommitmentFor(move)
}
