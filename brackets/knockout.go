package brackets

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Dosada05/match-score/models"
)

const (
	minKnockoutParticipants = 4
	maxKnockoutParticipants = 256
)

type KnockoutBuilder struct {
	mu  sync.Mutex // *rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

func NewKnockoutBuilder(rng *rand.Rand) *KnockoutBuilder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return &KnockoutBuilder{rng: rng}
}

func (b *KnockoutBuilder) Format() models.Format {
	return models.FormatKnockout
}

// ValidateKnockoutCount accepts only exact powers of two between 4 and 256.
func ValidateKnockoutCount(n int) error {
	if n < minKnockoutParticipants || n > maxKnockoutParticipants || n&(n-1) != 0 {
		return fmt.Errorf("%w: knockout needs 4, 8, 16, 32, 64, 128 or 256 participants, got %d",
			ErrInvalidParticipantCount, n)
	}
	return nil
}

func (b *KnockoutBuilder) Validate(participantCount int) error {
	return ValidateKnockoutCount(participantCount)
}

// Build shuffles the participants, pairs them into phase 1 and pre-creates empty
// matchups for every later phase down to the final. Output is phase-major.
func (b *KnockoutBuilder) Build(tournamentID int, participantIDs []int, startDate time.Time) ([]*models.Matchup, error) {
	n := len(participantIDs)
	if err := ValidateKnockoutCount(n); err != nil {
		return nil, err
	}

	shuffled := make([]int, n)
	copy(shuffled, participantIDs)
	b.mu.Lock()
	b.rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	b.mu.Unlock()

	matchups := make([]*models.Matchup, 0, n-1)
	for i := 0; i < n; i += 2 {
		p1, p2 := shuffled[i], shuffled[i+1]
		matchups = append(matchups, &models.Matchup{
			TournamentID:   tournamentID,
			PlayedAt:       startDate,
			Phase:          1,
			Sequence:       i / 2,
			ParticipantOne: &p1,
			ParticipantTwo: &p2,
		})
	}

	// TODO: advance PlayedAt per phase once the product decides on the cadence between rounds.
	phase := 2
	for count := n / 4; count >= 1; count /= 2 {
		for seq := 0; seq < count; seq++ {
			matchups = append(matchups, &models.Matchup{
				TournamentID: tournamentID,
				PlayedAt:     startDate,
				Phase:        phase,
				Sequence:     seq,
			})
		}
		phase++
	}

	return matchups, nil
}

// PhaseCount returns how many phases a knockout of n participants has.
func PhaseCount(n int) int {
	phases := 0
	for count := n / 2; count >= 1; count /= 2 {
		phases++
	}
	return phases
}
