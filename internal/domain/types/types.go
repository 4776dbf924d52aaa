// Package types contains common types used across the application
package types

// Standing represents one row of the standings board.
type Standing struct {
	Rank   int `json:"rank"`
	TeamID int `json:"team_id"`
	Record int `json:"record"`
}

// Result is the wire form of a league operation outcome.
// Value is present only for successful queries.
type Result struct {
	Status string `json:"status"`
	Value  *int   `json:"value,omitempty"`
}

// Stats describes league population and ingestion state.
type Stats struct {
	LiveTeams      int   `json:"live_teams"`
	RetiredTeams   int   `json:"retired_teams"`
	Jockeys        int   `json:"jockeys"`
	RecordValues   int   `json:"record_values"`
	Nodes          int   `json:"nodes"`
	QueueLength    int   `json:"queue_length"`
	QueueCapacity  int   `json:"queue_capacity"`
	WorkerCount    int   `json:"worker_count"`
	DedupeEntries  int64 `json:"dedupe_entries"`
	StandingsCount int   `json:"standings_count"`
	ReportsApplied int64 `json:"reports_applied"`
}
