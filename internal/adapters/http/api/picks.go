package api

import (
	"net/http"

	service "github.com/okian/jungle/internal/app"
)

type picksRequest struct {
	Picks []service.PickInput     `json:"picks"`
	Props []service.PropPickInput `json:"props"`
}

// PicksHandler serves the caller's pick sheet.
type PicksHandler struct {
	deps PickDependencies
}

// NewPicksHandler creates a new picks handler.
func NewPicksHandler(deps PickDependencies) *PicksHandler {
	return &PicksHandler{deps: deps}
}

// HandleGet handles GET /rounds/{round}/picks.
func (h *PicksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_picks"
	participant, err := requireParticipant(op, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	round, err := roundParam(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	sheet, err := h.deps.PickSheet(r.Context(), participant, round)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

// HandlePut handles PUT /rounds/{round}/picks.
func (h *PicksHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_picks"
	participant, err := requireParticipant(op, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	round, err := roundParam(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	var req picksRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	sheet, err := h.deps.SavePicks(r.Context(), participant, round, req.Picks, req.Props)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}
