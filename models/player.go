package models

import "fmt"

type Player struct {
	ID         int    `json:"id" db:"id"`
	FirstName  string `json:"first_name" db:"first_name"`
	SecondName string `json:"second_name" db:"second_name"`
	TeamID     *int   `json:"team_id,omitempty" db:"team_id"`
}

// DisplayName используется только при выдаче наружу, расписание работает с ID.
func (p *Player) DisplayName() string {
	if p == nil {
		return "N/A"
	}
	name := p.FirstName
	if p.SecondName != "" {
		if name != "" {
			name += " "
		}
		name += p.SecondName
	}
	if name == "" {
		return fmt.Sprintf("Player %d", p.ID)
	}
	return name
}
