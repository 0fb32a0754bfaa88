package handlers

import (
	"net/http"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/services"
)

type MatchupHandler struct {
	matchupService services.MatchupService
}

func NewMatchupHandler(matchupService services.MatchupService) *MatchupHandler {
	return &MatchupHandler{matchupService: matchupService}
}

func (h *MatchupHandler) RecordKnockoutScore(w http.ResponseWriter, r *http.Request) {
	h.recordScore(w, r, models.FormatKnockout)
}

func (h *MatchupHandler) RecordLeagueScore(w http.ResponseWriter, r *http.Request) {
	h.recordScore(w, r, models.FormatLeague)
}

func (h *MatchupHandler) recordScore(w http.ResponseWriter, r *http.Request, format models.Format) {
	id, err := idParam(r, "matchupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.ScoreInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	result, err := h.matchupService.RecordScore(r.Context(), id, format, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchupHandler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	m, err := h.matchupService.GetMatchup(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchup": m}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchupHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	list, err := h.matchupService.ListMatchups(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchups": list}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
