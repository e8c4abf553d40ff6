package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// GetMatch godoc
// @Summary Get one match
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} models.Match
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// ListSeasonMatches godoc
// @Summary List matches of a season, optionally filtered by status
// @Tags matches
// @Produce json
// @Param seasonID path int true "Season ID"
// @Param status query string false "Match status filter"
// @Success 200 {array} models.Match
// @Router /seasons/{seasonID}/matches [get]
func (h *MatchHandler) ListSeasonMatches(w http.ResponseWriter, r *http.Request) {
	seasonID, err := idParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var status *models.MatchStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.MatchStatus(raw)
		status = &s
	}
	matches, err := h.matchService.ListSeasonMatches(r.Context(), seasonID, status)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// ListMatchEvents godoc
// @Summary List recorded events of a match
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {array} models.MatchEvent
// @Router /matches/{matchID}/events [get]
func (h *MatchHandler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	events, err := h.matchService.ListMatchEvents(r.Context(), matchID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type submitResultRequest struct {
	services.SubmitResultParams
	Events  []services.EventInput  `json:"events,omitempty"`
	Lineups []services.LineupInput `json:"lineups,omitempty"`
}

// SubmitResult godoc
// @Summary Record the final score and finalize the match
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param matchID path int true "Match ID"
// @Param input body submitResultRequest true "Final score, events and lineups"
// @Success 200 {object} models.Match
// @Failure 400 {object} map[string]interface{}
// @Router /matches/{matchID}/result [post]
func (h *MatchHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input submitResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	input.MatchID = matchID

	match, err := h.matchService.SubmitResult(r.Context(), input.SubmitResultParams, input.Events, input.Lineups)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

type setStatusRequest struct {
	Status models.MatchStatus `json:"status"`
}

// SetStatus godoc
// @Summary Move a match between scheduled, live and postponed
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param matchID path int true "Match ID"
// @Param input body setStatusRequest true "New status"
// @Success 204
// @Router /matches/{matchID}/status [patch]
func (h *MatchHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input setStatusRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.matchService.SetStatus(r.Context(), matchID, input.Status); err != nil {
		mapServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
