package services

import (
	"errors"

	"github.com/Dosada05/match-score/brackets"
)

// Ошибки сервисного слоя, которые handlers маппят в HTTP-ответы.
var (
	// Алгоритмические ошибки отдаются как есть, чтобы errors.Is работал в обе стороны
	ErrInvalidParticipantCount = brackets.ErrInvalidParticipantCount
	ErrInvalidScore            = brackets.ErrInvalidScore
	ErrMatchupNotReady         = brackets.ErrMatchupNotReady

	// Валидация и бизнес-правила
	ErrValidationFailed     = errors.New("validation failed")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrStartDateInPast      = errors.New("starting date must not be in the past")
	ErrFormatMismatch       = errors.New("matchup belongs to a tournament of another format")
	ErrResultLocked         = errors.New("result can no longer change: the next matchup is already played")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrAlreadyPrivileged    = errors.New("user is already an admin or director")

	// Не найдено
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrMatchupNotFound     = errors.New("matchup not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrUserNotFound        = errors.New("user not found")

	// Конфликты
	ErrTournamentTitleConflict = errors.New("tournament title already exists")
	ErrEmailTaken              = errors.New("email is already taken")
	ErrTeamNameConflict        = errors.New("team name already exists")
	ErrPlayerInUse             = errors.New("player takes part in a tournament")
	ErrTeamInUse               = errors.New("team takes part in a tournament")

	// Аутентификация и доступ
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)
