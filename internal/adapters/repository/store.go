// Package repository holds the standings board: live teams ordered by record.
package repository

import "context"

// Entry represents a standings row.
type Entry struct {
	Rank   int
	TeamID int
	Record int
}

// Store provides read/write access to the standings.
type Store interface {
	// Upsert sets the record of a live team, inserting it if unknown.
	// Returns false when the team already held that record.
	Upsert(ctx context.Context, teamID, record int) bool

	// Remove drops a team from the standings and reports whether it was present.
	Remove(ctx context.Context, teamID int) bool

	// Rank returns the current rank and record for a team.
	// Returns ErrNotFound if the team is not on the board.
	Rank(ctx context.Context, teamID int) (Entry, error)

	// TopN returns the top-N entries ordered by record desc, team id asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of teams on the board.
	Count(ctx context.Context) int
}
