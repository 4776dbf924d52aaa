// Package model contains domain models passed between layers.
package model

import "time"

// MatchReport is one match result submitted for asynchronous application.
type MatchReport struct {
	ReportID string    // unique id for idempotency
	WinnerID int       // winning jockey
	LoserID  int       // losing jockey
	TS       time.Time // when the match was reported
}

// TeamStanding is a live team and its current record.
type TeamStanding struct {
	TeamID int
	Record int
}

// Better reports whether s ranks ahead of o: higher record first, then lower team id.
func (s TeamStanding) Better(o TeamStanding) bool {
	if s.Record != o.Record {
		return s.Record > o.Record
	}
	return s.TeamID < o.TeamID
}
