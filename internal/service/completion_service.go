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

// CompletionService orchestrates a habit completion: the duplicate check,
// streak update, XP award with bonuses, and achievement evaluation, in that
// order.
type CompletionService interface {
	// CompleteHabit records a completion for today and returns the full
	// reward breakdown. Returns models.ErrHabitNotFound, ErrHabitArchived or
	// ErrAlreadyCompleted on the corresponding violations.
	CompleteHabit(ctx context.Context, userID, habitID uuid.UUID) (*models.CompletionSummary, error)
}

var _ CompletionService = (*completionService)(nil)

type completionService struct {
	habits       repository.HabitRepository
	completions  repository.CompletionRepository
	progress     repository.ProgressRepository
	achievements repository.AchievementRepository
	streaks      StreakService
	insights     InsightsService
	logger       *zap.Logger
}

func NewCompletionService(
	habits repository.HabitRepository,
	completions repository.CompletionRepository,
	progress repository.ProgressRepository,
	achievements repository.AchievementRepository,
	streaks StreakService,
	insights InsightsService,
	logger *zap.Logger,
) CompletionService {
	return &completionService{
		habits:       habits,
		completions:  completions,
		progress:     progress,
		achievements: achievements,
		streaks:      streaks,
		insights:     insights,
		logger:       logger.Named("CompletionService"),
	}
}

func (s *completionService) CompleteHabit(ctx context.Context, userID, habitID uuid.UUID) (*models.CompletionSummary, error) {
	habit, err := s.habits.GetByID(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	if habit.Archived {
		return nil, models.ErrHabitArchived
	}

	now := time.Now()

	done, err := s.completions.ExistsForDay(ctx, habitID, userID, now)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, models.ErrAlreadyCompleted
	}

	progress, err := s.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// First completion of the day across all habits earns the daily login
	// bonus. Counted before the insert so the new row does not mask it.
	todayCount, err := s.completions.CountForUserDay(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	completion := &models.HabitCompletion{
		ID:          uuid.New(),
		HabitID:     habitID,
		UserID:      userID,
		CompletedAt: now,
	}
	// The unique index on (habit_id, completed_on) closes the race between
	// the check above and this insert.
	if err := s.completions.Create(ctx, completion); err != nil {
		return nil, err
	}

	streak, err := s.streaks.Recalculate(ctx, userID)
	if err != nil {
		return nil, err
	}

	baseXP := habit.XPReward
	if baseXP <= 0 {
		baseXP = gamification.XPHabitComplete
	}

	bonusXP := 0
	milestoneXP, milestoneLabel := gamification.StreakMilestoneBonus(progress.CurrentStreak, streak.Current)
	bonusXP += milestoneXP
	if todayCount == 0 {
		bonusXP += gamification.XPDailyLogin
	}
	totalXP := baseXP + bonusXP

	unlocked, achievementXP, err := s.evaluateAchievements(ctx, userID, progress, streak.Current, now, totalXP)
	if err != nil {
		// Achievements are additive; the completion itself already stands.
		s.logger.Error("Achievement evaluation failed",
			zap.Stringer("userID", userID), zap.Error(err))
	}

	// Achievement XP is persisted with the award but kept out of the
	// completion totals, which stay base + milestone + login.
	awardXP := totalXP + achievementXP
	level := gamification.LevelFromTotalXP(progress.TotalXP + awardXP)
	if err := s.progress.AddXP(ctx, userID, awardXP, level.Level); err != nil {
		return nil, err
	}

	s.insights.InvalidateUser(ctx, userID)

	s.logger.Info("Habit completed",
		zap.Stringer("userID", userID),
		zap.Stringer("habitID", habitID),
		zap.Int("totalXP", totalXP),
		zap.Int("streak", streak.Current))

	return &models.CompletionSummary{
		Completion:     *completion,
		BaseXP:         baseXP,
		BonusXP:        bonusXP,
		TotalXP:        totalXP,
		AchievementXP:  achievementXP,
		MilestoneLabel: milestoneLabel,
		NewLevel:       level.Level,
		Achievements:   unlocked,
		Streak:         streak,
	}, nil
}

// evaluateAchievements snapshots post-completion state, diffs the qualifying
// set against already-unlocked keys and records the new unlocks. Returns the
// new keys and their XP.
func (s *completionService) evaluateAchievements(
	ctx context.Context,
	userID uuid.UUID,
	progress *models.UserProgress,
	currentStreak int,
	now time.Time,
	pendingXP int,
) ([]string, int, error) {
	pillarCounts, err := s.completions.CountByPillar(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	pillarsToday, err := s.completions.PillarsCompletedOn(ctx, userID, now)
	if err != nil {
		return nil, 0, err
	}
	readingCount, err := s.achievements.CountReadingCompletions(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	alreadyUnlocked, err := s.achievements.ListUnlockedKeys(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	state := gamification.AchievementState{
		CurrentStreak:         currentStreak,
		Level:                 gamification.LevelFromTotalXP(progress.TotalXP + pendingXP).Level,
		PillarCompletions:     pillarCounts,
		ReadingCount:          readingCount,
		PillarsCompletedToday: pillarsToday,
	}

	var unlocked []string
	xp := 0
	for _, key := range gamification.QualifyingAchievements(state) {
		if alreadyUnlocked[key] {
			continue
		}
		unlocked = append(unlocked, key)
		if def, ok := gamification.DefinitionByKey(key); ok {
			xp += def.XPReward
		}
	}
	if len(unlocked) == 0 {
		return nil, 0, nil
	}

	if err := s.achievements.RecordUnlocks(ctx, userID, unlocked, now); err != nil {
		return nil, 0, err
	}
	return unlocked, xp, nil
}
