package service

import (
	"context"
	"testing"

	"wellness-server/internal/models"
	"wellness-server/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHabitService(habits *mocks.HabitRepository) HabitService {
	return NewHabitService(habits, &insightsStub{multipliers: flatMultipliers()}, zap.NewNop())
}

func TestHabitCreate_DefaultsAndValidation(t *testing.T) {
	userID := uuid.New()
	habits := new(mocks.HabitRepository)
	habits.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := newHabitService(habits)

	t.Run("defaults applied", func(t *testing.T) {
		habit, err := svc.Create(context.Background(), userID, models.PillarPhysical, "  Morning run ", "")
		require.NoError(t, err)
		assert.Equal(t, "Morning run", habit.Name)
		assert.Equal(t, models.FrequencyDaily, habit.Frequency)
		assert.Equal(t, 10, habit.XPReward)
	})

	t.Run("unknown pillar", func(t *testing.T) {
		_, err := svc.Create(context.Background(), userID, models.Pillar("vibes"), "x", "")
		assert.ErrorIs(t, err, models.ErrInvalidPillar)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Create(context.Background(), userID, models.PillarMental, "   ", "")
		assert.ErrorIs(t, err, models.ErrInvalidHabitName)
	})
}

func TestHabitRemove_ArchivesWhenHistoryExists(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	habits := new(mocks.HabitRepository)
	habits.On("GetByID", mock.Anything, habitID, userID).
		Return(&models.Habit{ID: habitID, UserID: userID, Pillar: models.PillarFiscal}, nil)
	habits.On("HasCompletions", mock.Anything, habitID).Return(true, nil)
	habits.On("Archive", mock.Anything, habitID, userID).Return(nil)

	require.NoError(t, newHabitService(habits).Remove(context.Background(), userID, habitID))
	habits.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestHabitRemove_DeletesWhenNeverCompleted(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	habits := new(mocks.HabitRepository)
	habits.On("GetByID", mock.Anything, habitID, userID).
		Return(&models.Habit{ID: habitID, UserID: userID, Pillar: models.PillarFiscal}, nil)
	habits.On("HasCompletions", mock.Anything, habitID).Return(false, nil)
	habits.On("Delete", mock.Anything, habitID, userID).Return(nil)

	require.NoError(t, newHabitService(habits).Remove(context.Background(), userID, habitID))
	habits.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything, mock.Anything)
}
