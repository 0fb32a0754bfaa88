package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/match-score/middleware"
	"github.com/Dosada05/match-score/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"score_one":1,"score_two":0}`},
		{name: "empty", body: ``, wantErr: "body must not be empty"},
		{name: "unknown key", body: `{"score_one":1,"extra":true}`, wantErr: "unknown key"},
		{name: "wrong type", body: `{"score_one":"one"}`, wantErr: "incorrect JSON type"},
		{name: "two values", body: `{"score_one":1}{"score_one":2}`, wantErr: "single JSON value"},
		{name: "broken", body: `{"score_one":`, wantErr: "badly-formed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tc.body))
			var dst services.ScoreInput
			err := readJSON(httptest.NewRecorder(), req, &dst)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, 1, *dst.ScoreOne)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDecodeAndValidateReportsJSONFieldNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"","participants":[1,-2],"starting_date":"2026-05-01"}`))
	rec := httptest.NewRecorder()

	var input services.CreateTournamentInput
	ok := decodeAndValidate(rec, req, &input)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title"`)
	assert.Contains(t, rec.Body.String(), `"participants[1]"`)
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{services.ErrInvalidParticipantCount, http.StatusBadRequest},
		{services.ErrInvalidScore, http.StatusBadRequest},
		{services.ErrParticipantNotFound, http.StatusBadRequest},
		{services.ErrDuplicateParticipant, http.StatusBadRequest},
		{services.ErrStartDateInPast, http.StatusBadRequest},
		{services.ErrFormatMismatch, http.StatusBadRequest},
		{services.ErrMatchupNotReady, http.StatusBadRequest},
		{services.ErrMatchupNotFound, http.StatusNotFound},
		{services.ErrTournamentNotFound, http.StatusNotFound},
		{services.ErrPlayerNotFound, http.StatusNotFound},
		{services.ErrTeamNotFound, http.StatusNotFound},
		{services.ErrUserNotFound, http.StatusNotFound},
		{services.ErrTeamNameConflict, http.StatusConflict},
		{services.ErrPlayerInUse, http.StatusConflict},
		{services.ErrTeamInUse, http.StatusConflict},
		{services.ErrAlreadyPrivileged, http.StatusBadRequest},
		{services.ErrResultLocked, http.StatusConflict},
		{services.ErrTournamentTitleConflict, http.StatusConflict},
		{services.ErrEmailTaken, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbiddenOperation, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mapServiceErrorToHTTP(rec, req, fmt.Errorf("wrapped: %w", tc.err))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestServerErrorResponseUsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil)).With(slog.String("request_id", "req-42"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/tournaments/knockout/matchups/1/score", nil)
	req = req.WithContext(middleware.WithLogger(req.Context(), logger))

	serverErrorResponse(rec, req, errors.New("db is down"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db is down")
	logged := buf.String()
	assert.Contains(t, logged, `"msg":"internal server error"`)
	assert.Contains(t, logged, `"request_id":"req-42"`)
	assert.Contains(t, logged, "db is down")
}
