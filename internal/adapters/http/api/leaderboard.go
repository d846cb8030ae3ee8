package api

import (
	"context"
	"net/http"
	"strconv"

	service "github.com/okian/jungle/internal/app"
	"github.com/okian/jungle/internal/domain/standings"
)

// LeaderboardDependencies defines the interface for standings reads.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, limit int) ([]standings.Standing, error)
	SeasonStats(ctx context.Context) (service.SeasonReport, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N. Without a limit
// every bettor is listed.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	var n int
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, r, NewKind(op, ErrBadRequest))
			return
		}
		if h.maxLimit > 0 && n > h.maxLimit {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Code:    "limit_exceeded",
				Message: "limit must not exceed " + strconv.Itoa(h.maxLimit),
			})
			return
		}
	}
	rows, err := h.deps.Leaderboard(r.Context(), n)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleSeasonStats handles GET /season-stats.
func (h *LeaderboardHandler) HandleSeasonStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.season_stats"
	report, err := h.deps.SeasonStats(r.Context())
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
