package brackets

import (
	"fmt"

	"github.com/Dosada05/match-score/models"
)

// Slot is the side of the successor matchup a winner is written into.
type Slot int

const (
	SlotOne Slot = 1
	SlotTwo Slot = 2
)

// ValidateScore rejects negative scores and draws.
func ValidateScore(scoreOne, scoreTwo int) error {
	if scoreOne < 0 || scoreTwo < 0 {
		return fmt.Errorf("%w: scores must not be negative (%d:%d)", ErrInvalidScore, scoreOne, scoreTwo)
	}
	if scoreOne == scoreTwo {
		return fmt.Errorf("%w: draws are not allowed (%d:%d)", ErrInvalidScore, scoreOne, scoreTwo)
	}
	return nil
}

// Winner returns the participant with the higher score.
func Winner(m *models.Matchup) (int, error) {
	if m.ParticipantOne == nil || m.ParticipantTwo == nil {
		return 0, fmt.Errorf("%w: matchup %d", ErrMatchupNotReady, m.ID)
	}
	if !m.HasResult() {
		return 0, fmt.Errorf("%w: matchup %d has no result", ErrInvalidScore, m.ID)
	}
	if err := ValidateScore(*m.ScoreOne, *m.ScoreTwo); err != nil {
		return 0, err
	}
	if *m.ScoreOne > *m.ScoreTwo {
		return *m.ParticipantOne, nil
	}
	return *m.ParticipantTwo, nil
}

// SuccessorSlot maps a matchup position to its position and side in the next phase.
func SuccessorSlot(sequence int) (int, Slot) {
	if sequence%2 == 0 {
		return sequence / 2, SlotOne
	}
	return sequence / 2, SlotTwo
}

// Occupant returns who currently sits in the given slot.
func Occupant(m *models.Matchup, slot Slot) *int {
	if slot == SlotOne {
		return m.ParticipantOne
	}
	return m.ParticipantTwo
}

// Place writes winnerID into the slot of successor and reports whether anything changed.
func Place(successor *models.Matchup, winnerID int, slot Slot) bool {
	if current := Occupant(successor, slot); current != nil && *current == winnerID {
		return false
	}
	id := winnerID
	if slot == SlotOne {
		successor.ParticipantOne = &id
	} else {
		successor.ParticipantTwo = &id
	}
	return true
}
