package models

import "time"

// Format определяет тип турнира.
type Format string

const (
	FormatKnockout Format = "knockout"
	FormatLeague   Format = "league"
)

func (f Format) Valid() bool {
	return f == FormatKnockout || f == FormatLeague
}

// ParticipantType определяет, кто играет в матчах турнира: игроки или команды.
type ParticipantType string

const (
	ParticipantPlayer ParticipantType = "player"
	ParticipantTeam   ParticipantType = "team"
)

func (p ParticipantType) Valid() bool {
	return p == ParticipantPlayer || p == ParticipantTeam
}

// Tournament представляет турнир. Мутируется только поле WinnerID.
type Tournament struct {
	ID              int             `json:"id" db:"id"`
	Title           string          `json:"title" db:"title"`
	Prize           *string         `json:"prize,omitempty" db:"prize"`
	Format          Format          `json:"format" db:"format"`
	ParticipantType ParticipantType `json:"participant_type" db:"participant_type"`
	WinnerID        *int            `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
