package models

import "errors"

var (
	// Common resource/DB errors
	ErrNotFound         = errors.New("resource not found")
	ErrHabitNotFound    = errors.New("habit not found")
	ErrProgressNotFound = errors.New("user progress not found")

	// Completion errors
	ErrAlreadyCompleted = errors.New("habit already completed today")
	ErrHabitArchived    = errors.New("habit is archived")

	// Coach errors
	ErrRateLimited      = errors.New("daily coach message limit reached")
	ErrCoachUnavailable = errors.New("coach generation unavailable")
	ErrEmptyMessages    = errors.New("messages must not be empty")

	// Token errors
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")

	// Validation
	ErrInvalidPillar    = errors.New("unknown wellness pillar")
	ErrInvalidHabitName = errors.New("habit name must not be empty")
)
