package service

import (
	"context"
	"testing"
	"time"

	"wellness-server/internal/gamification"
	"wellness-server/internal/models"
	"wellness-server/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// insightsStub satisfies InsightsService with fixed multipliers; completion
// tests do not exercise the analytics surface.
type insightsStub struct {
	multipliers map[models.Pillar]float64
}

func (s *insightsStub) FullInsights(context.Context, uuid.UUID) (*models.UserInsights, error) {
	return &models.UserInsights{}, nil
}

func (s *insightsStub) Correlations(context.Context, bool) ([]models.Correlation, error) {
	return nil, nil
}

func (s *insightsStub) HabitStacks(context.Context, int) ([]models.HabitStack, error) {
	return nil, nil
}

func (s *insightsStub) Multipliers(context.Context, uuid.UUID) (map[models.Pillar]float64, error) {
	return s.multipliers, nil
}

func (s *insightsStub) InvalidateUser(context.Context, uuid.UUID) {}

func flatMultipliers() map[models.Pillar]float64 {
	m := make(map[models.Pillar]float64, len(models.AllPillars))
	for _, p := range models.AllPillars {
		m[p] = 1.0
	}
	return m
}

type completionFixture struct {
	habits       *mocks.HabitRepository
	completions  *mocks.CompletionRepository
	progress     *mocks.ProgressRepository
	achievements *mocks.AchievementRepository
	service      CompletionService
}

func newCompletionFixture(t *testing.T, multipliers map[models.Pillar]float64) *completionFixture {
	t.Helper()
	f := &completionFixture{
		habits:       new(mocks.HabitRepository),
		completions:  new(mocks.CompletionRepository),
		progress:     new(mocks.ProgressRepository),
		achievements: new(mocks.AchievementRepository),
	}
	logger := zap.NewNop()
	streaks := NewStreakService(f.completions, f.progress, logger)
	f.service = NewCompletionService(
		f.habits, f.completions, f.progress, f.achievements,
		streaks, &insightsStub{multipliers: multipliers}, logger,
	)
	return f
}

func TestCompleteHabit_FirstCompletion(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	habit := &models.Habit{
		ID:       habitID,
		UserID:   userID,
		Pillar:   models.PillarSocial,
		Name:     "Call a friend",
		XPReward: gamification.XPHabitComplete,
	}
	progress := &models.UserProgress{UserID: userID, Level: 1, Tier: models.TierFree}

	f := newCompletionFixture(t, flatMultipliers())
	f.habits.On("GetByID", mock.Anything, habitID, userID).Return(habit, nil)
	f.completions.On("ExistsForDay", mock.Anything, habitID, userID, mock.Anything).Return(false, nil)
	f.progress.On("GetOrCreate", mock.Anything, userID).Return(progress, nil)
	f.completions.On("CountForUserDay", mock.Anything, userID, mock.Anything).Return(0, nil)
	f.completions.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.completions.On("ListCompletionDays", mock.Anything, userID).Return(map[string]struct{}{
		gamification.DayKey(time.Now()): {},
	}, nil)
	f.progress.On("UpdateStreak", mock.Anything, userID, 1, 1).Return(nil)
	f.completions.On("CountByPillar", mock.Anything, userID).Return(map[models.Pillar]int{models.PillarSocial: 1}, nil)
	f.completions.On("PillarsCompletedOn", mock.Anything, userID, mock.Anything).Return(map[models.Pillar]bool{models.PillarSocial: true}, nil)
	f.achievements.On("CountReadingCompletions", mock.Anything, userID).Return(0, nil)
	f.achievements.On("ListUnlockedKeys", mock.Anything, userID).Return(map[string]bool{}, nil)
	f.progress.On("AddXP", mock.Anything, userID, 15, 1).Return(nil)

	summary, err := f.service.CompleteHabit(context.Background(), userID, habitID)
	require.NoError(t, err)

	assert.Equal(t, 10, summary.BaseXP)
	assert.Equal(t, 5, summary.BonusXP, "first completion of the day earns the login bonus")
	assert.Equal(t, 15, summary.TotalXP)
	assert.Equal(t, 0, summary.AchievementXP)
	assert.Nil(t, summary.MilestoneLabel)
	assert.Equal(t, 1, summary.NewLevel)
	assert.Empty(t, summary.Achievements)
	assert.Equal(t, models.StreakResult{Current: 1, Longest: 1, IsNewRecord: true}, summary.Streak)

	f.progress.AssertExpectations(t)
	f.completions.AssertExpectations(t)
	f.achievements.AssertExpectations(t)
}

func TestCompleteHabit_DuplicateSameDay(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	habit := &models.Habit{ID: habitID, UserID: userID, Pillar: models.PillarPhysical, XPReward: 10}

	f := newCompletionFixture(t, flatMultipliers())
	f.habits.On("GetByID", mock.Anything, habitID, userID).Return(habit, nil)
	f.completions.On("ExistsForDay", mock.Anything, habitID, userID, mock.Anything).Return(true, nil)

	_, err := f.service.CompleteHabit(context.Background(), userID, habitID)
	assert.ErrorIs(t, err, models.ErrAlreadyCompleted)
	f.completions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCompleteHabit_ArchivedHabit(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	habit := &models.Habit{ID: habitID, UserID: userID, Pillar: models.PillarPhysical, Archived: true}

	f := newCompletionFixture(t, flatMultipliers())
	f.habits.On("GetByID", mock.Anything, habitID, userID).Return(habit, nil)

	_, err := f.service.CompleteHabit(context.Background(), userID, habitID)
	assert.ErrorIs(t, err, models.ErrHabitArchived)
}

func TestCompleteHabit_UnknownHabit(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()

	f := newCompletionFixture(t, flatMultipliers())
	f.habits.On("GetByID", mock.Anything, habitID, userID).Return(nil, models.ErrHabitNotFound)

	_, err := f.service.CompleteHabit(context.Background(), userID, habitID)
	assert.ErrorIs(t, err, models.ErrHabitNotFound)
}

func TestCompleteHabit_ThirdDayMilestoneAndAchievement(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	habit := &models.Habit{
		ID:       habitID,
		UserID:   userID,
		Pillar:   models.PillarSocial,
		XPReward: gamification.XPHabitComplete,
	}
	progress := &models.UserProgress{
		UserID:        userID,
		TotalXP:       250,
		Level:         2,
		CurrentStreak: 2,
		LongestStreak: 2,
		Tier:          models.TierFree,
	}

	now := time.Now()
	days := map[string]struct{}{
		gamification.DayKey(now):                   {},
		gamification.DayKey(now.AddDate(0, 0, -1)): {},
		gamification.DayKey(now.AddDate(0, 0, -2)): {},
	}

	f := newCompletionFixture(t, flatMultipliers())
	f.habits.On("GetByID", mock.Anything, habitID, userID).Return(habit, nil)
	f.completions.On("ExistsForDay", mock.Anything, habitID, userID, mock.Anything).Return(false, nil)
	f.progress.On("GetOrCreate", mock.Anything, userID).Return(progress, nil)
	// A different habit was already completed today, no login bonus.
	f.completions.On("CountForUserDay", mock.Anything, userID, mock.Anything).Return(1, nil)
	f.completions.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.completions.On("ListCompletionDays", mock.Anything, userID).Return(days, nil)
	f.progress.On("UpdateStreak", mock.Anything, userID, 3, 3).Return(nil)
	f.completions.On("CountByPillar", mock.Anything, userID).Return(map[models.Pillar]int{models.PillarSocial: 3}, nil)
	f.completions.On("PillarsCompletedOn", mock.Anything, userID, mock.Anything).Return(map[models.Pillar]bool{models.PillarSocial: true}, nil)
	f.achievements.On("CountReadingCompletions", mock.Anything, userID).Return(0, nil)
	f.achievements.On("ListUnlockedKeys", mock.Anything, userID).Return(map[string]bool{}, nil)
	f.achievements.On("RecordUnlocks", mock.Anything, userID, []string{"streak_3"}, mock.Anything).Return(nil)
	// Persisted award is base 10 + milestone 25 + achievement 25 = 60;
	// 250+60 XP is level 3. The summary totals exclude the achievement XP.
	f.progress.On("AddXP", mock.Anything, userID, 60, 3).Return(nil)

	summary, err := f.service.CompleteHabit(context.Background(), userID, habitID)
	require.NoError(t, err)

	assert.Equal(t, 10, summary.BaseXP)
	assert.Equal(t, 25, summary.BonusXP)
	assert.Equal(t, 35, summary.TotalXP)
	assert.Equal(t, 25, summary.AchievementXP)
	require.NotNil(t, summary.MilestoneLabel)
	assert.Equal(t, "3-day streak!", *summary.MilestoneLabel)
	assert.Equal(t, []string{"streak_3"}, summary.Achievements)
	assert.Equal(t, 3, summary.NewLevel)
	assert.Equal(t, models.StreakResult{Current: 3, Longest: 3, IsNewRecord: true}, summary.Streak)

	f.achievements.AssertExpectations(t)
	f.progress.AssertExpectations(t)
}

// A new user's first-ever physical completion. Multipliers exist for the
// pillar but never touch the award; the unlocked achievement's XP is
// persisted yet stays out of the completion totals.
func TestCompleteHabit_AwardIgnoresMultipliers(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	habit := &models.Habit{
		ID:       habitID,
		UserID:   userID,
		Pillar:   models.PillarPhysical,
		XPReward: gamification.XPHabitComplete,
	}
	progress := &models.UserProgress{UserID: userID, Level: 1, Tier: models.TierFree}

	multipliers := flatMultipliers()
	multipliers[models.PillarPhysical] = 1.5

	f := newCompletionFixture(t, multipliers)
	f.habits.On("GetByID", mock.Anything, habitID, userID).Return(habit, nil)
	f.completions.On("ExistsForDay", mock.Anything, habitID, userID, mock.Anything).Return(false, nil)
	f.progress.On("GetOrCreate", mock.Anything, userID).Return(progress, nil)
	f.completions.On("CountForUserDay", mock.Anything, userID, mock.Anything).Return(0, nil)
	f.completions.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.completions.On("ListCompletionDays", mock.Anything, userID).Return(map[string]struct{}{
		gamification.DayKey(time.Now()): {},
	}, nil)
	f.progress.On("UpdateStreak", mock.Anything, userID, 1, 1).Return(nil)
	f.completions.On("CountByPillar", mock.Anything, userID).Return(map[models.Pillar]int{models.PillarPhysical: 1}, nil)
	f.completions.On("PillarsCompletedOn", mock.Anything, userID, mock.Anything).Return(map[models.Pillar]bool{models.PillarPhysical: true}, nil)
	f.achievements.On("CountReadingCompletions", mock.Anything, userID).Return(0, nil)
	f.achievements.On("ListUnlockedKeys", mock.Anything, userID).Return(map[string]bool{}, nil)
	f.achievements.On("RecordUnlocks", mock.Anything, userID, []string{"physical_first"}, mock.Anything).Return(nil)
	// Persisted award: 15 completion + 25 achievement = 40.
	f.progress.On("AddXP", mock.Anything, userID, 40, 1).Return(nil)

	summary, err := f.service.CompleteHabit(context.Background(), userID, habitID)
	require.NoError(t, err)

	assert.Equal(t, 10, summary.BaseXP, "multiplier must not scale the reward")
	assert.Equal(t, 5, summary.BonusXP)
	assert.Equal(t, 15, summary.TotalXP)
	assert.Equal(t, 25, summary.AchievementXP)
	assert.Equal(t, []string{"physical_first"}, summary.Achievements)
	f.progress.AssertExpectations(t)
	f.achievements.AssertExpectations(t)
}
