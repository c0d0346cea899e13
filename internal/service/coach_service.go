package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wellness-server/internal/models"
	"wellness-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxRecentHabits caps how many habit names the coach context carries.
const maxRecentHabits = 5

// CoachGenerator produces a coach reply from conversation history and a
// rendered context block. Satisfied by pkg/ai.Client.
type CoachGenerator interface {
	GenerateCoachResponse(ctx context.Context, history []models.ChatMessage, userContext string) (string, error)
}

// CoachService runs the AI wellness coach: context assembly, the free-tier
// rate limit and conversation persistence.
type CoachService interface {
	// Chat appends the user message, generates a reply and persists both.
	// Free-tier users are limited per calendar day; over the limit returns
	// models.ErrRateLimited. The conversation log is only extended after a
	// successful generation so failed calls never consume quota.
	Chat(ctx context.Context, userID uuid.UUID, message string) (string, error)
	// BuildContext assembles the structured user snapshot injected into the
	// coach system prompt.
	BuildContext(ctx context.Context, userID uuid.UUID) (*models.CoachContext, error)
}

var _ CoachService = (*coachService)(nil)

type coachService struct {
	progress      repository.ProgressRepository
	habits        repository.HabitRepository
	conversations repository.ConversationRepository
	insights      InsightsService
	generator     CoachGenerator
	freeLimit     int
	logger        *zap.Logger
}

func NewCoachService(
	progress repository.ProgressRepository,
	habits repository.HabitRepository,
	conversations repository.ConversationRepository,
	insights InsightsService,
	generator CoachGenerator,
	freeDailyLimit int,
	logger *zap.Logger,
) CoachService {
	return &coachService{
		progress:      progress,
		habits:        habits,
		conversations: conversations,
		insights:      insights,
		generator:     generator,
		freeLimit:     freeDailyLimit,
		logger:        logger.Named("CoachService"),
	}
}

func (s *coachService) Chat(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", models.ErrEmptyMessages
	}

	progress, err := s.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return "", err
	}

	conversation, err := s.conversations.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return "", err
		}
		conversation = &models.Conversation{UserID: userID}
	}

	now := time.Now()
	if progress.Tier != models.TierPremium && conversation.UserMessagesOn(now) >= s.freeLimit {
		return "", models.ErrRateLimited
	}

	coachCtx, err := s.BuildContext(ctx, userID)
	if err != nil {
		// The coach still works without a context block.
		s.logger.Warn("Coach context assembly failed",
			zap.Stringer("userID", userID), zap.Error(err))
		coachCtx = &models.CoachContext{}
	}

	history := append(conversation.Messages, models.ChatMessage{
		Role:      models.RoleUser,
		Content:   message,
		Timestamp: now,
	})

	reply, err := s.generator.GenerateCoachResponse(ctx, history, renderCoachContext(coachCtx))
	if err != nil {
		s.logger.Error("Coach generation failed",
			zap.Stringer("userID", userID), zap.Error(err))
		return "", models.ErrCoachUnavailable
	}

	conversation.Messages = append(history, models.ChatMessage{
		Role:      models.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	})
	if err := s.conversations.Upsert(ctx, conversation); err != nil {
		return "", err
	}

	return reply, nil
}

func (s *coachService) BuildContext(ctx context.Context, userID uuid.UUID) (*models.CoachContext, error) {
	progress, err := s.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	coachCtx := &models.CoachContext{
		Level:      progress.Level,
		Streak:     progress.CurrentStreak,
		Challenges: []string(progress.Challenges),
	}

	habits, err := s.habits.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	for i, habit := range habits {
		if i >= maxRecentHabits {
			break
		}
		coachCtx.RecentHabits = append(coachCtx.RecentHabits, fmt.Sprintf("%s (%s)", habit.Name, habit.Pillar))
	}

	insights, err := s.insights.FullInsights(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, score := range insights.PillarScores {
		if score.HabitCount > 0 {
			coachCtx.PillarScores = append(coachCtx.PillarScores, fmt.Sprintf("%s: %d", score.Pillar, score.Score))
		}
	}
	if insights.StrongestPillar != nil {
		coachCtx.StrongestPillar = string(*insights.StrongestPillar)
	}
	if insights.WeakestPillar != nil {
		coachCtx.WeakestPillar = string(*insights.WeakestPillar)
	}

	if correlations, err := s.insights.Correlations(ctx, true); err == nil && len(correlations) > 0 {
		coachCtx.TopCorrelation = correlations[0].InsightText
	}
	if stacks, err := s.insights.HabitStacks(ctx, 1); err == nil && len(stacks) > 0 {
		coachCtx.SuggestedHabitStack = stacks[0].SuggestionText
	}

	return coachCtx, nil
}

// renderCoachContext flattens the snapshot into the plain text block the
// model receives.
func renderCoachContext(c *models.CoachContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level: %d\n", c.Level)
	fmt.Fprintf(&b, "Current streak: %d days\n", c.Streak)
	if len(c.RecentHabits) > 0 {
		fmt.Fprintf(&b, "Active habits: %s\n", strings.Join(c.RecentHabits, ", "))
	}
	if len(c.Challenges) > 0 {
		fmt.Fprintf(&b, "Stated challenges: %s\n", strings.Join(c.Challenges, ", "))
	}
	if len(c.PillarScores) > 0 {
		fmt.Fprintf(&b, "Pillar scores: %s\n", strings.Join(c.PillarScores, ", "))
	}
	if c.StrongestPillar != "" {
		fmt.Fprintf(&b, "Strongest pillar: %s\n", c.StrongestPillar)
	}
	if c.WeakestPillar != "" {
		fmt.Fprintf(&b, "Weakest pillar: %s\n", c.WeakestPillar)
	}
	if c.TopCorrelation != "" {
		fmt.Fprintf(&b, "Insight: %s\n", c.TopCorrelation)
	}
	if c.SuggestedHabitStack != "" {
		fmt.Fprintf(&b, "Suggested habit stack: %s\n", c.SuggestedHabitStack)
	}
	return b.String()
}
