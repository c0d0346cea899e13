// Package service implements the business logic of the wellness core on top
// of the repository contracts. Handlers depend on the service interfaces;
// tests substitute repository mocks.
package service

import (
	"context"
	"time"

	"wellness-server/internal/gamification"
	"wellness-server/internal/models"
	"wellness-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StreakService recomputes streak state from the completion log. It is the
// only writer of the streak fields in user progress.
type StreakService interface {
	// Recalculate derives the current streak from completion history, raises
	// the longest streak when beaten and persists both.
	Recalculate(ctx context.Context, userID uuid.UUID) (models.StreakResult, error)
}

var _ StreakService = (*streakService)(nil)

type streakService struct {
	completions repository.CompletionRepository
	progress    repository.ProgressRepository
	logger      *zap.Logger
}

func NewStreakService(
	completions repository.CompletionRepository,
	progress repository.ProgressRepository,
	logger *zap.Logger,
) StreakService {
	return &streakService{
		completions: completions,
		progress:    progress,
		logger:      logger.Named("StreakService"),
	}
}

func (s *streakService) Recalculate(ctx context.Context, userID uuid.UUID) (models.StreakResult, error) {
	progress, err := s.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return models.StreakResult{}, err
	}

	days, err := s.completions.ListCompletionDays(ctx, userID)
	if err != nil {
		return models.StreakResult{}, err
	}

	current := gamification.CurrentStreak(days, time.Now())
	longest := progress.LongestStreak
	isNewRecord := current > longest
	if isNewRecord {
		longest = current
	}

	if current != progress.CurrentStreak || longest != progress.LongestStreak {
		if err := s.progress.UpdateStreak(ctx, userID, current, longest); err != nil {
			return models.StreakResult{}, err
		}
	}

	if isNewRecord {
		s.logger.Info("New longest streak",
			zap.Stringer("userID", userID), zap.Int("streak", current))
	}

	return models.StreakResult{
		Current:     current,
		Longest:     longest,
		IsNewRecord: isNewRecord,
	}, nil
}
