package api

import (
	"errors"
	"net/http"

	"github.com/okian/jungle/internal/adapters/repository"
	service "github.com/okian/jungle/internal/app"
)

type resultsRequest struct {
	Results     []service.ResultInput `json:"results"`
	PropWinners map[string][]string   `json:"prop_winners"`
}

// ResultsHandler serves results and scores.
type ResultsHandler struct {
	deps ResultDependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultDependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGet handles GET /rounds/{round}/results.
func (h *ResultsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_results"
	round, err := roundParam(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Results(r.Context(), round)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandlePut handles PUT /rounds/{round}/results. Any participant may
// enter results; scores are recalculated in the background.
func (h *ResultsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_results"
	if _, err := requireParticipant(op, r); err != nil {
		writeError(w, r, err)
		return
	}
	round, err := roundParam(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	var req resultsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.SaveResults(r.Context(), round, req.Results, req.PropWinners)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

// HandleGetScores handles GET /rounds/{round}/scores.
func (h *ResultsHandler) HandleGetScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scores"
	round, err := roundParam(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	scores, err := h.deps.RoundScores(r.Context(), round)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// HandleCalculateScores handles POST /rounds/{round}/scores, grading a
// locked round synchronously. Like results entry it needs an identified
// participant.
func (h *ResultsHandler) HandleCalculateScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.calculate_scores"
	if _, err := requireParticipant(op, r); err != nil {
		writeError(w, r, err)
		return
	}
	round, err := roundParam(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	scores, err := h.deps.CalculateScores(r.Context(), round)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// HandleGetScore handles GET /rounds/{round}/scores/{participant}.
func (h *ResultsHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_score"
	round, err := roundParam(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	score, err := h.deps.ParticipantScore(r.Context(), round, r.PathValue("participant"))
	switch {
	case errors.Is(err, service.ErrUnknownParticipant):
		// the path names a resource here, not the caller
		writeError(w, r, WrapKind(op, repository.ErrNotFound, err))
		return
	case err != nil:
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, score)
}
