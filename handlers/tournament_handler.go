package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

func (h *TournamentHandler) CreateKnockout(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.tournamentService.CreateKnockout)
}

func (h *TournamentHandler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.tournamentService.CreateLeague)
}

type createFunc func(ctx context.Context, input services.CreateTournamentInput) (*services.TournamentView, error)

func (h *TournamentHandler) create(w http.ResponseWriter, r *http.Request, create createFunc) {
	var input services.CreateTournamentInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	view, err := create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := services.ListTournamentsInput{}

	if v := q.Get("format"); v != "" {
		f := models.Format(v)
		input.Format = &f
	}
	for name, dst := range map[string]*int{"limit": &input.Limit, "offset": &input.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errorResponse(w, r, http.StatusBadRequest, "invalid '"+name+"' query parameter")
			return
		}
		*dst = n
	}

	list, err := h.tournamentService.ListTournaments(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": list}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type setWinnerInput struct {
	WinnerID int `json:"winner_id" validate:"required,gt=0"`
}

func (h *TournamentHandler) SetWinner(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input setWinnerInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	tournament, err := h.tournamentService.SetWinner(r.Context(), id, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
