package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// ListStandings godoc
// @Summary Season standings table
// @Tags stats
// @Produce json
// @Param seasonID path int true "Season ID"
// @Success 200 {array} models.ClubSeasonStats
// @Router /seasons/{seasonID}/standings [get]
func (h *StatsHandler) ListStandings(w http.ResponseWriter, r *http.Request) {
	seasonID, err := idParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	standings, err := h.statsService.ListStandings(r.Context(), seasonID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// ListPlayerSeasonStats godoc
// @Summary Per-player season statistics
// @Tags stats
// @Produce json
// @Param seasonID path int true "Season ID"
// @Success 200 {array} models.PlayerSeasonStats
// @Router /seasons/{seasonID}/player-stats [get]
func (h *StatsHandler) ListPlayerSeasonStats(w http.ResponseWriter, r *http.Request) {
	seasonID, err := idParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	stats, err := h.statsService.ListPlayerSeasonStats(r.Context(), seasonID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListPlayerCareerStats godoc
// @Summary Per-player career statistics for a club
// @Tags stats
// @Produce json
// @Param clubID path int true "Club ID"
// @Success 200 {array} models.PlayerCareerStats
// @Router /clubs/{clubID}/career-stats [get]
func (h *StatsHandler) ListPlayerCareerStats(w http.ResponseWriter, r *http.Request) {
	clubID, err := idParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	stats, err := h.statsService.ListPlayerCareerStats(r.Context(), clubID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListDisqualifications godoc
// @Summary Suspensions of a season
// @Tags stats
// @Produce json
// @Param seasonID path int true "Season ID"
// @Param active query bool false "Only active bans"
// @Success 200 {array} models.Disqualification
// @Router /seasons/{seasonID}/disqualifications [get]
func (h *StatsHandler) ListDisqualifications(w http.ResponseWriter, r *http.Request) {
	seasonID, err := idParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	activeOnly := r.URL.Query().Get("active") == "true"
	bans, err := h.statsService.ListDisqualifications(r.Context(), seasonID, activeOnly)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bans)
}
