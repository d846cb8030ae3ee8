// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	service "github.com/okian/jungle/internal/app"
	"github.com/okian/jungle/internal/domain/model"
	"github.com/okian/jungle/pkg/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RoundDependencies
	PredictionDependencies
	PickDependencies
	ResultDependencies
	LeaderboardDependencies
}

// RoundDependencies reads the schedule.
type RoundDependencies interface {
	Rounds(ctx context.Context) []service.RoundInfo
	Round(ctx context.Context, number int) (service.RoundInfo, error)
	CurrentRound(ctx context.Context) (service.RoundInfo, error)
}

// PredictionDependencies covers predictions and the lines built from them.
type PredictionDependencies interface {
	SubmitPredictions(ctx context.Context, participant string, round int, inputs []service.PredictionInput) ([]model.Prediction, error)
	Predictions(ctx context.Context, participant string, round int) ([]model.Prediction, error)
	RefreshLines(ctx context.Context, round int) ([]model.Line, error)
	Lines(ctx context.Context, round int) ([]model.Line, error)
}

// PickDependencies covers the pick sheet.
type PickDependencies interface {
	SavePicks(ctx context.Context, participant string, round int, picks []service.PickInput, props []service.PropPickInput) (service.PickSheet, error)
	PickSheet(ctx context.Context, participant string, round int) (service.PickSheet, error)
}

// ResultDependencies covers results and scoring.
type ResultDependencies interface {
	SaveResults(ctx context.Context, round int, results []service.ResultInput, propWinners map[string][]string) (service.RoundResults, error)
	Results(ctx context.Context, round int) (service.RoundResults, error)
	CalculateScores(ctx context.Context, round int) ([]model.Score, error)
	RoundScores(ctx context.Context, round int) ([]model.Score, error)
	ParticipantScore(ctx context.Context, round int, participant string) (model.Score, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	roundsHandler      *RoundsHandler
	predictionsHandler *PredictionsHandler
	picksHandler       *PicksHandler
	resultsHandler     *ResultsHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		roundsHandler:      NewRoundsHandler(deps),
		predictionsHandler: NewPredictionsHandler(deps),
		picksHandler:       NewPicksHandler(deps),
		resultsHandler:     NewResultsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
	}
}

// Register attaches all HTTP routes to mux. Every route resolves the
// caller's participant id and records request metrics.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, ParticipantMiddleware(MetricsMiddleware(h, endpoint)))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /rounds", "rounds", s.roundsHandler.HandleList)
	route("GET /rounds/current", "rounds_current", s.roundsHandler.HandleCurrent)
	route("GET /rounds/{round}", "round", s.roundsHandler.HandleGet)

	route("GET /rounds/{round}/predictions", "predictions", s.predictionsHandler.HandleGet)
	route("PUT /rounds/{round}/predictions", "predictions", s.predictionsHandler.HandlePut)
	route("GET /rounds/{round}/lines", "lines", s.predictionsHandler.HandleGetLines)
	route("POST /rounds/{round}/lines/refresh", "lines_refresh", s.predictionsHandler.HandleRefreshLines)

	route("GET /rounds/{round}/picks", "picks", s.picksHandler.HandleGet)
	route("PUT /rounds/{round}/picks", "picks", s.picksHandler.HandlePut)

	route("GET /rounds/{round}/results", "results", s.resultsHandler.HandleGet)
	route("PUT /rounds/{round}/results", "results", s.resultsHandler.HandlePut)
	route("GET /rounds/{round}/scores", "scores", s.resultsHandler.HandleGetScores)
	route("POST /rounds/{round}/scores", "scores", s.resultsHandler.HandleCalculateScores)
	route("GET /rounds/{round}/scores/{participant}", "score", s.resultsHandler.HandleGetScore)

	route("GET /leaderboard", "leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
	route("GET /season-stats", "season_stats", s.leaderboardHandler.HandleSeasonStats)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError classifies err into a status and code. Server errors are
// logged; their details never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a single JSON document into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must hold a single JSON document")
	}
	return nil
}

// roundParam parses the {round} path value.
func roundParam(r *http.Request) (int, error) {
	raw := r.PathValue("round")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid round %q", raw)
	}
	return n, nil
}

// requireParticipant returns the caller's id or ErrUnauthorized.
func requireParticipant(op string, r *http.Request) (string, error) {
	id := ParticipantFrom(r.Context())
	if id == "" {
		return "", NewKind(op, ErrUnauthorized)
	}
	return id, nil
}
