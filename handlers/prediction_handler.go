package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type PredictionHandler struct {
	predictionService services.PredictionService
}

func NewPredictionHandler(predictionService services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

type createPredictionRequest struct {
	Pick models.MatchOutcome `json:"pick"`
}

// CreatePrediction godoc
// @Summary Predict the outcome of a scheduled match
// @Tags predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param matchID path int true "Match ID"
/// @Param input body createPredictionRequest true "Pick: 1, X or 2"
// @Success 201 {object} models.Prediction
// @Failure 409 {object} map[string]interface{}
// @Router /matches/{matchID}/predictions [post]
func (h *PredictionHandler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, "authentication required")
		return
	}
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input createPredictionRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	prediction, err := h.predictionService.CreatePrediction(r.Context(), userID, matchID, input.Pick)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, prediction)
}

// ListMyPredictions godoc
// @Summary List the caller's predictions
// @Tags predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Prediction
// @Router /me/predictions [get]
func (h *PredictionHandler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, "authentication required")
		return
	}
	predictions, err := h.predictionService.ListUserPredictions(r.Context(), userID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictions)
}

// ListMyAchievements godoc
// @Summary List the caller's earned achievements
// @Tags predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserAchievement
// @Router /me/achievements [get]
func (h *PredictionHandler) ListMyAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, "authentication required")
		return
	}
	achievements, err := h.predictionService.ListUserAchievements(r.Context(), userID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}
