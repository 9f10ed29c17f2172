// Package storage defines persistence contracts for roll history.
package storage

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
)

var (
	// ErrNotFound indicates a requested roll record is missing.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")
	// ErrAlreadyExists indicates a roll with the same ID was already stored.
	ErrAlreadyExists = errors.New("record already exists")
)

// RollRecord stores one evaluated roll with everything needed to replay it.
type RollRecord struct {
	ID string
	// Notation is the text the caller supplied; Canonical is its normalized form.
	Notation   string
	Canonical  string
	ForceSum   bool
	Seed       int64
	SeedSource string
	RollMode   string
	Rolls      []int
	Kept       []int
	Dropped    []int
	Summed     bool
	Total      int
	CreatedAt  time.Time
}

// HistoryStore persists roll records.
type HistoryStore interface {
	AppendRoll(ctx context.Context, record RollRecord) error
	GetRoll(ctx context.Context, id string) (RollRecord, error)
	// ListRolls returns up to limit records, newest first.
	ListRolls(ctx context.Context, limit int) ([]RollRecord, error)
}
