package brackets

import (
	"errors"
	"time"

	"github.com/Dosada05/match-score/models"
)

var (
	ErrInvalidParticipantCount = errors.New("invalid participant count")
	ErrInvalidScore            = errors.New("invalid score")
	ErrMatchupNotReady         = errors.New("matchup participants are not resolved yet")
)

// Generator строит полный список матчей турнира из плоского списка участников.
// Реализации не делают I/O: все проверки выполняются до того, как что-либо попадет в хранилище.
type Generator interface {
	Build(tournamentID int, participantIDs []int, startDate time.Time) ([]*models.Matchup, error)
	Validate(participantCount int) error
	Format() models.Format
}

var (
	_ Generator = (*KnockoutBuilder)(nil)
	_ Generator = (*LeagueBuilder)(nil)
)
