package api

import (
	"context"
	"net/http"
)

// LeagueDependencies defines the synchronous league operations.
type LeagueDependencies interface {
	AddTeam(ctx context.Context, teamID int) error
	AddJockey(ctx context.Context, jockeyID, teamID int) error
	RecordMatch(ctx context.Context, winnerID, loserID int) error
	MergeTeams(ctx context.Context, teamID1, teamID2 int) error
	UniteByRecord(ctx context.Context, record int) error
	JockeyRecord(ctx context.Context, jockeyID int) (int, error)
	TeamRecord(ctx context.Context, teamID int) (int, error)
	TeamOf(ctx context.Context, jockeyID int) (int, error)
	TeamSize(ctx context.Context, teamID int) (int, error)
}

type teamRequest struct {
	TeamID int `json:"team_id"`
}

type jockeyRequest struct {
	JockeyID int `json:"jockey_id"`
	TeamID   int `json:"team_id"`
}

type matchRequest struct {
	WinnerID int `json:"winner_id"`
	LoserID  int `json:"loser_id"`
}

type mergeRequest struct {
	TeamID1 int `json:"team_id_1"`
	TeamID2 int `json:"team_id_2"`
}

type uniteRequest struct {
	Record int `json:"record"`
}

// LeagueHandler handles team, jockey and match requests.
type LeagueHandler struct {
	deps LeagueDependencies
}

// NewLeagueHandler creates a new league handler.
func NewLeagueHandler(deps LeagueDependencies) *LeagueHandler {
	return &LeagueHandler{deps: deps}
}

// HandleAddTeam handles POST /teams requests.
func (h *LeagueHandler) HandleAddTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_team"
	var req teamRequest
	if err := decode(r, &req); err != nil {
		writeInvalid(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeOutcome(w, op, h.deps.AddTeam(r.Context(), req.TeamID), false, nil)
}

// HandleAddJockey handles POST /jockeys requests.
func (h *LeagueHandler) HandleAddJockey(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_jockey"
	var req jockeyRequest
	if err := decode(r, &req); err != nil {
		writeInvalid(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeOutcome(w, op, h.deps.AddJockey(r.Context(), req.JockeyID, req.TeamID), false, nil)
}

// HandleRecordMatch handles POST /matches requests.
func (h *LeagueHandler) HandleRecordMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_match"
	var req matchRequest
	if err := decode(r, &req); err != nil {
		writeInvalid(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeOutcome(w, op, h.deps.RecordMatch(r.Context(), req.WinnerID, req.LoserID), false, nil)
}

// HandleMergeTeams handles POST /merges requests.
func (h *LeagueHandler) HandleMergeTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.merge_teams"
	var req mergeRequest
	if err := decode(r, &req); err != nil {
		writeInvalid(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeOutcome(w, op, h.deps.MergeTeams(r.Context(), req.TeamID1, req.TeamID2), false, nil)
}

// HandleUniteByRecord handles POST /unite requests.
func (h *LeagueHandler) HandleUniteByRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.unite_by_record"
	var req uniteRequest
	if err := decode(r, &req); err != nil {
		writeInvalid(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeOutcome(w, op, h.deps.UniteByRecord(r.Context(), req.Record), false, nil)
}

// query runs a read operation keyed by the {id} path parameter.
func (h *LeagueHandler) query(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, int) (int, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeInvalid(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := fn(r.Context(), id)
	writeOutcome(w, op, err, true, &v)
}

// HandleJockeyRecord handles GET /jockeys/{id} requests.
func (h *LeagueHandler) HandleJockeyRecord(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "api.get_jockey_record", h.deps.JockeyRecord)
}

// HandleTeamRecord handles GET /teams/{id} requests.
func (h *LeagueHandler) HandleTeamRecord(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "api.get_team_record", h.deps.TeamRecord)
}

// HandleTeamOf handles GET /jockeys/{id}/team requests.
func (h *LeagueHandler) HandleTeamOf(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "api.team_of", h.deps.TeamOf)
}

// HandleTeamSize handles GET /teams/{id}/size requests.
func (h *LeagueHandler) HandleTeamSize(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "api.team_size", h.deps.TeamSize)
}
