package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

const maxCrestSize = 5 << 20 // 5MB

type ClubHandler struct {
	clubService services.ClubService
}

func NewClubHandler(clubService services.ClubService) *ClubHandler {
	return &ClubHandler{clubService: clubService}
}

type createClubRequest struct {
	Name string  `json:"name"`
	City *string `json:"city,omitempty"`
}

// CreateClub godoc
// @Summary Create a club
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createClubRequest true "Club data"
// @Success 201 {object} models.Club
// @Router /clubs [post]
func (h *ClubHandler) CreateClub(w http.ResponseWriter, r *http.Request) {
	var input createClubRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	club, err := h.clubService.CreateClub(r.Context(), input.Name, input.City)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, club)
}

// GetClub godoc
// @Summary Get one club
// @Tags clubs
// @Produce json
// @Param clubID path int true "Club ID"
// @Success 200 {object} models.Club
// @Router /clubs/{clubID} [get]
func (h *ClubHandler) GetClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := idParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	club, err := h.clubService.GetClub(r.Context(), clubID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// ListClubs godoc
// @Summary List clubs
// @Tags clubs
// @Produce json
// @Success 200 {array} models.Club
// @Router /clubs [get]
func (h *ClubHandler) ListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubService.ListClubs(r.Context())
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

// ListRoster godoc
// @Summary List players of a club
// @Tags clubs
// @Produce json
// @Param clubID path int true "Club ID"
// @Success 200 {array} models.Player
// @Router /clubs/{clubID}/players [get]
func (h *ClubHandler) ListRoster(w http.ResponseWriter, r *http.Request) {
	clubID, err := idParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	players, err := h.clubService.ListRoster(r.Context(), clubID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

type createPlayerRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Position  *string `json:"position,omitempty"`
}

// CreatePlayer godoc
// @Summary Add a player to a club roster
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path int true "Club ID"
// @Param input body createPlayerRequest true "Player data"
// @Success 201 {object} models.Player
// @Router /clubs/{clubID}/players [post]
func (h *ClubHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	clubID, err := idParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var input createPlayerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	player := &models.Player{
		ClubID:    &clubID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Position:  input.Position,
	}
	if err := h.clubService.CreatePlayer(r.Context(), player); err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

// UploadCrest godoc
// @Summary Upload the club crest image
// @Tags clubs
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param clubID path int true "Club ID"
// @Param crest formData file true "Crest image"
// @Success 200 {object} models.Club
// @Router /clubs/{clubID}/crest [put]
func (h *ClubHandler) UploadCrest(w http.ResponseWriter, r *http.Request) {
	clubID, err := idParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCrestSize)
	if err := r.ParseMultipartForm(maxCrestSize); err != nil {
		badRequestResponse(w, err)
		return
	}
	file, header, err := r.FormFile("crest")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	defer file.Close()

	club, err := h.clubService.UploadCrest(r.Context(), clubID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}
