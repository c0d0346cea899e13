package service

import (
	"context"
	"strings"

	"wellness-server/internal/gamification"
	"wellness-server/internal/models"
	"wellness-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HabitService manages habit definitions.
type HabitService interface {
	Create(ctx context.Context, userID uuid.UUID, pillar models.Pillar, name string, frequency models.Frequency) (*models.Habit, error)
	List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.Habit, error)
	// Remove archives a habit that has completions and hard-deletes one that
	// never had any, keeping historical analytics intact either way.
	Remove(ctx context.Context, userID, habitID uuid.UUID) error
}

var _ HabitService = (*habitService)(nil)

type habitService struct {
	habits   repository.HabitRepository
	insights InsightsService
	logger   *zap.Logger
}

func NewHabitService(habits repository.HabitRepository, insights InsightsService, logger *zap.Logger) HabitService {
	return &habitService{
		habits:   habits,
		insights: insights,
		logger:   logger.Named("HabitService"),
	}
}

func (s *habitService) Create(ctx context.Context, userID uuid.UUID, pillar models.Pillar, name string, frequency models.Frequency) (*models.Habit, error) {
	if !pillar.IsValid() {
		return nil, models.ErrInvalidPillar
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidHabitName
	}
	if frequency == "" {
		frequency = models.FrequencyDaily
	}

	habit := &models.Habit{
		ID:        uuid.New(),
		UserID:    userID,
		Pillar:    pillar,
		Name:      name,
		Frequency: frequency,
		XPReward:  gamification.XPHabitComplete,
	}
	if err := s.habits.Create(ctx, habit); err != nil {
		return nil, err
	}

	s.insights.InvalidateUser(ctx, userID)
	s.logger.Info("Habit created",
		zap.Stringer("userID", userID),
		zap.Stringer("habitID", habit.ID),
		zap.String("pillar", string(pillar)))
	return habit, nil
}

func (s *habitService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.Habit, error) {
	return s.habits.ListByUser(ctx, userID, includeArchived)
}

func (s *habitService) Remove(ctx context.Context, userID, habitID uuid.UUID) error {
	habit, err := s.habits.GetByID(ctx, habitID, userID)
	if err != nil {
		return err
	}

	hasCompletions, err := s.habits.HasCompletions(ctx, habit.ID)
	if err != nil {
		return err
	}

	if hasCompletions {
		err = s.habits.Archive(ctx, habit.ID, userID)
	} else {
		err = s.habits.Delete(ctx, habit.ID, userID)
	}
	if err != nil {
		return err
	}

	s.insights.InvalidateUser(ctx, userID)
	return nil
}
