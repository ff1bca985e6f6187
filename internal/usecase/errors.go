package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrAlreadyProcessed      = errors.New("date already processed")
	ErrLeagueNotLive         = errors.New("league is not live")
	ErrMissingScoringRules   = errors.New("league has no scoring rules")
)
