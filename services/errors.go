package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrInvalidTeamColor   = errors.New("team color is not part of the palette")
	ErrRoundNameRequired  = errors.New("round name is required")
	ErrSameTeams          = errors.New("home and away team must be different")
	ErrCategoryMismatch   = errors.New("team does not belong to the match category")
	ErrInvalidScore       = errors.New("scores must be non-negative")
	ErrInvalidScorer      = errors.New("scorer entries need a player and a positive count")
	ErrDuplicateScorer    = errors.New("a player may appear only once in the scorer list")
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrInvalidPlayerNum   = errors.New("player number must be non-negative")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidTarget      = errors.New("notification target must be \"all\" or a user id")
	ErrNotificationEmpty  = errors.New("notification title and message are required")
	ErrInvalidNotifType   = errors.New("invalid notification type")

	// Ошибки конфликтов
	ErrTeamNameConflict = errors.New("team name is already in use in this category")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrRoundNotFound        = errors.New("round not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrPublishingDisabled = errors.New("standings publishing is not configured")
)
