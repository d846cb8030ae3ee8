package api

import (
	"net/http"
)

// RoundsHandler serves the schedule.
type RoundsHandler struct {
	deps RoundDependencies
}

// NewRoundsHandler creates a new rounds handler.
func NewRoundsHandler(deps RoundDependencies) *RoundsHandler {
	return &RoundsHandler{deps: deps}
}

// HandleList handles GET /rounds.
func (h *RoundsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Rounds(r.Context()))
}

// HandleCurrent handles GET /rounds/current.
func (h *RoundsHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	const op = "api.current_round"
	info, err := h.deps.CurrentRound(r.Context())
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleGet handles GET /rounds/{round}.
func (h *RoundsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_round"
	round, err := roundParam(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	info, err := h.deps.Round(r.Context(), round)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}
