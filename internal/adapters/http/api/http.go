// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	service "github.com/okian/plains/internal/app"
	"github.com/okian/plains/internal/domain/league"
	"github.com/okian/plains/internal/domain/types"
)

// defaultStandingsLimit caps GET /standings when no option overrides it.
const defaultStandingsLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeagueDependencies
	ReportDependencies
	StandingsDependencies
	StatsProvider
	HealthProvider
}

// Result is the body of every league operation response.
type Result = types.Result

// Server wires HTTP routes for the league API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	leagueHandler    *LeagueHandler
	reportsHandler   *ReportsHandler
	standingsHandler *StandingsHandler
	rankHandler      *RankHandler
}

// Option configures the Server.
type Option func(*serverConfig)

type serverConfig struct {
	standingsLimit int
}

// WithStandingsLimit caps the limit accepted by GET /standings.
func WithStandingsLimit(n int) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.standingsLimit = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := serverConfig{standingsLimit: defaultStandingsLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(deps),
		leagueHandler:    NewLeagueHandler(deps),
		reportsHandler:   NewReportsHandler(deps),
		standingsHandler: NewStandingsHandler(deps, cfg.standingsLimit),
		rankHandler:      NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /teams", MetricsMiddleware(s.leagueHandler.HandleAddTeam, "teams"))
	mux.HandleFunc("POST /jockeys", MetricsMiddleware(s.leagueHandler.HandleAddJockey, "jockeys"))
	mux.HandleFunc("POST /matches", MetricsMiddleware(s.leagueHandler.HandleRecordMatch, "matches"))
	mux.HandleFunc("POST /merges", MetricsMiddleware(s.leagueHandler.HandleMergeTeams, "merges"))
	mux.HandleFunc("POST /unite", MetricsMiddleware(s.leagueHandler.HandleUniteByRecord, "unite"))
	mux.HandleFunc("GET /jockeys/{id}", MetricsMiddleware(s.leagueHandler.HandleJockeyRecord, "jockey_record"))
	mux.HandleFunc("GET /jockeys/{id}/team", MetricsMiddleware(s.leagueHandler.HandleTeamOf, "jockey_team"))
	mux.HandleFunc("GET /teams/{id}", MetricsMiddleware(s.leagueHandler.HandleTeamRecord, "team_record"))
	mux.HandleFunc("GET /teams/{id}/size", MetricsMiddleware(s.leagueHandler.HandleTeamSize, "team_size"))

	mux.HandleFunc("POST /reports", MetricsMiddleware(s.reportsHandler.HandlePostReport, "reports"))
	mux.HandleFunc("GET /standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("GET /standings/{id}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

// statusCode maps a league status to its HTTP code. Read queries answer
// FAILURE with 404 since the named entity is absent.
func statusCode(s league.Status, read bool) int {
	switch s {
	case league.Success:
		return http.StatusOK
	case league.InvalidInput:
		return http.StatusBadRequest
	case league.AllocationError:
		return http.StatusInsufficientStorage
	default:
		if read {
			return http.StatusNotFound
		}
		return http.StatusConflict
	}
}

// writeOutcome writes the Result for the outcome of a league operation.
// value is included only on success.
func writeOutcome(w http.ResponseWriter, op string, err error, read bool, value *int) {
	if errors.Is(err, service.ErrNotStarted) {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	st := league.StatusOf(err)
	res := Result{Status: st.String()}
	if st == league.Success {
		res.Value = value
	}
	writeJSON(w, statusCode(st, read), res)
}
