package api

import (
	"net/http"

	service "github.com/okian/jungle/internal/app"
)

type predictionsRequest struct {
	Predictions []service.PredictionInput `json:"predictions"`
}

// PredictionsHandler serves predictions and lines.
type PredictionsHandler struct {
	deps PredictionDependencies
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionDependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// HandleGet handles GET /rounds/{round}/predictions for the caller.
func (h *PredictionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_predictions"
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
	preds, err := h.deps.Predictions(r.Context(), participant, round)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, preds)
}

// HandlePut handles PUT /rounds/{round}/predictions, replacing the
// caller's predictions.
func (h *PredictionsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_predictions"
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
	var req predictionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	preds, err := h.deps.SubmitPredictions(r.Context(), participant, round, req.Predictions)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, preds)
}

// HandleGetLines handles GET /rounds/{round}/lines.
func (h *PredictionsHandler) HandleGetLines(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_lines"
	round, err := roundParam(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	lines, err := h.deps.Lines(r.Context(), round)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// HandleRefreshLines handles POST /rounds/{round}/lines/refresh.
func (h *PredictionsHandler) HandleRefreshLines(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh_lines"
	round, err := roundParam(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	lines, err := h.deps.RefreshLines(r.Context(), round)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, lines)
}
