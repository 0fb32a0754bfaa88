package models

import "time"

// Matchup is a single pairing inside a tournament phase.
// Both participants nil means the matchup is a placeholder waiting for promotion.
type Matchup struct {
	ID             int       `json:"id" db:"id"`
	TournamentID   int       `json:"tournament_id" db:"tournament_id"`
	PlayedAt       time.Time `json:"played_at" db:"played_at"`
	Phase          int       `json:"phase" db:"phase"`
	Sequence       int       `json:"sequence_in_phase" db:"sequence_in_phase"`
	ParticipantOne *int      `json:"participant_one,omitempty" db:"participant_one"`
	ParticipantTwo *int      `json:"participant_two,omitempty" db:"participant_two"`
	ScoreOne       *int      `json:"score_one,omitempty" db:"score_one"`
	ScoreTwo       *int      `json:"score_two,omitempty" db:"score_two"`
}

func (m *Matchup) IsPlaceholder() bool {
	return m.ParticipantOne == nil && m.ParticipantTwo == nil
}

func (m *Matchup) HasResult() bool {
	return m.ScoreOne != nil && m.ScoreTwo != nil
}

// HasParticipant reports whether id plays in this matchup.
func (m *Matchup) HasParticipant(id int) bool {
	return (m.ParticipantOne != nil && *m.ParticipantOne == id) ||
		(m.ParticipantTwo != nil && *m.ParticipantTwo == id)
}
