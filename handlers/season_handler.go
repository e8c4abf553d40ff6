package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type SeasonHandler struct {
	seasonService      services.SeasonService
	competitionService services.CompetitionService
	overviewService    services.OverviewService
}

func NewSeasonHandler(
	seasonService services.SeasonService,
	competitionService services.CompetitionService,
	overviewService services.OverviewService,
) *SeasonHandler {
	return &SeasonHandler{
		seasonService:      seasonService,
		competitionService: competitionService,
		overviewService:    overviewService,
	}
}

type createCompetitionRequest struct {
	Name    string  `json:"name"`
	Country *string `json:"country,omitempty"`
}

// CreateCompetition godoc
// @Summary Create a competition
// @Tags competitions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createCompetitionRequest true "Competition data"
// @Success 201 {object} models.Competition
// @Router /competitions [post]
func (h *SeasonHandler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	var input createCompetitionRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	competition, err := h.competitionService.CreateCompetition(r.Context(), input.Name, input.Country)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, competition)
}

// ListCompetitions godoc
// @Summary List competitions
// @Tags competitions
// @Produce json
// @Success 200 {array} models.Competition
// @Router /competitions [get]
func (h *SeasonHandler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.competitionService.ListCompetitions(r.Context())
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, competitions)
}

// ListSeasons godoc
// @Summary List seasons of a competition
// @Tags competitions
// @Produce json
// @Param competitionID path int true "Competition ID"
// @Success 200 {array} models.Season
// @Router /competitions/{competitionID}/seasons [get]
func (h *SeasonHandler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	competitionID, err := idParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	seasons, err := h.competitionService.ListSeasons(r.Context(), competitionID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seasons)
}

// CreateSeason godoc
// @Summary Create a season with its full schedule
// @Tags seasons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body services.CreateSeasonParams true "Season parameters"
// @Success 201 {object} models.Season
// @Failure 400 {object} map[string]interface{}
// @Router /seasons [post]
func (h *SeasonHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var params services.CreateSeasonParams
	if err := readJSON(w, r, &params); err != nil {
		badRequestResponse(w, err)
		return
	}
	season, err := h.seasonService.CreateSeason(r.Context(), params)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, season)
}

// GetSeason godoc
// @Summary Get one season
// @Tags seasons
// @Produce json
// @Param seasonID path int true "Season ID"
// @Success 200 {object} models.Season
// @Router /seasons/{seasonID} [get]
func (h *SeasonHandler) GetSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := idParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	season, err := h.seasonService.GetSeason(r.Context(), seasonID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, season)
}

// GetSeasonOverview godoc
// @Summary Composite season page: standings, schedule, scorers, bans
// @Tags seasons
// @Produce json
// @Param seasonID path int true "Season ID"
// @Success 200 {object} services.SeasonOverview
// @Router /seasons/{seasonID}/overview [get]
func (h *SeasonHandler) GetSeasonOverview(w http.ResponseWriter, r *http.Request) {
	seasonID, err := idParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	overview, err := h.overviewService.GetSeasonOverview(r.Context(), seasonID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

type createPlayoffsRequest struct {
	QualifiersPerGroup int `json:"qualifiers_per_group"`
	BestOf             int `json:"best_of"`
}

// CreatePlayoffs godoc
// @Summary Plan the playoff bracket of a group+playoff season
// @Tags seasons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param seasonID path int true "Season ID"
// @Param input body createPlayoffsRequest true "Playoff parameters"
// @Success 201 {array} models.Series
// @Failure 409 {object} map[string]interface{}
// @Router /seasons/{seasonID}/playoffs [post]
func (h *SeasonHandler) CreatePlayoffs(w http.ResponseWriter, r *http.Request) {
	seasonID, err := idParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input createPlayoffsRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	series, err := h.seasonService.CreatePlayoffs(r.Context(), seasonID, input.QualifiersPerGroup, input.BestOf)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, series)
}
