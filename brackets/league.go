package brackets

import (
	"fmt"
	"time"

	"github.com/Dosada05/match-score/models"
)

const leaguePhaseInterval = 7 // days

// LeagueBuilder builds a single round-robin with the circle method.
type LeagueBuilder struct{}

func NewLeagueBuilder() *LeagueBuilder {
	return &LeagueBuilder{}
}

func (b *LeagueBuilder) Format() models.Format {
	return models.FormatLeague
}

// ValidateLeagueCount rejects odd counts; a bye strategy for odd leagues is not defined.
func ValidateLeagueCount(n int) error {
	if n < 2 || n%2 != 0 {
		return fmt.Errorf("%w: league needs an even number of participants (at least 2), got %d",
			ErrInvalidParticipantCount, n)
	}
	return nil
}

func (b *LeagueBuilder) Validate(participantCount int) error {
	return ValidateLeagueCount(participantCount)
}

// Build produces N-1 phases of N/2 matchups. participantIDs[0] stays fixed, the rest
// rotate one position per phase; phase r is played 7*r days after startDate.
func (b *LeagueBuilder) Build(tournamentID int, participantIDs []int, startDate time.Time) ([]*models.Matchup, error) {
	n := len(participantIDs)
	if err := ValidateLeagueCount(n); err != nil {
		return nil, err
	}

	ring := participantIDs[1:]
	ringSize := len(ring)
	matchups := make([]*models.Matchup, 0, n*(n-1)/2)
	rotated := make([]int, n)

	for r := 0; r < n-1; r++ {
		rotated[0] = participantIDs[0]
		for i := 0; i < ringSize; i++ {
			rotated[i+1] = ring[(i-r+ringSize)%ringSize]
		}

		playedAt := startDate.AddDate(0, 0, leaguePhaseInterval*r)
		for i := 0; i < n/2; i++ {
			home, away := rotated[i], rotated[n-1-i]
			matchups = append(matchups, &models.Matchup{
				TournamentID:   tournamentID,
				PlayedAt:       playedAt,
				Phase:          r + 1,
				Sequence:       i,
				ParticipantOne: &home,
				ParticipantTwo: &away,
			})
		}
	}

	return matchups, nil
}
