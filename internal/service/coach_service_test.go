package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wellness-server/internal/models"
	"wellness-server/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type generatorStub struct {
	reply string
	err   error
	calls int
}

func (g *generatorStub) GenerateCoachResponse(_ context.Context, _ []models.ChatMessage, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type coachFixture struct {
	progress      *mocks.ProgressRepository
	habits        *mocks.HabitRepository
	conversations *mocks.ConversationRepository
	generator     *generatorStub
	service       CoachService
}

func newCoachFixture(t *testing.T, freeLimit int, generator *generatorStub) *coachFixture {
	t.Helper()
	f := &coachFixture{
		progress:      new(mocks.ProgressRepository),
		habits:        new(mocks.HabitRepository),
		conversations: new(mocks.ConversationRepository),
		generator:     generator,
	}
	f.service = NewCoachService(
		f.progress, f.habits, f.conversations,
		&insightsStub{multipliers: flatMultipliers()},
		generator, freeLimit, zap.NewNop(),
	)
	return f
}

func conversationWithUserMessages(userID uuid.UUID, count int, at time.Time) *models.Conversation {
	conv := &models.Conversation{ID: uuid.New(), UserID: userID}
	for i := 0; i < count; i++ {
		conv.Messages = append(conv.Messages,
			models.ChatMessage{Role: models.RoleUser, Content: "q", Timestamp: at},
			models.ChatMessage{Role: models.RoleAssistant, Content: "a", Timestamp: at},
		)
	}
	return conv
}

func TestCoachChat_AppendsAfterGeneration(t *testing.T) {
	userID := uuid.New()
	gen := &generatorStub{reply: "Nice streak, keep the morning run going."}

	f := newCoachFixture(t, 10, gen)
	f.progress.On("GetOrCreate", mock.Anything, userID).Return(&models.UserProgress{
		UserID: userID, Level: 2, CurrentStreak: 4, Tier: models.TierFree,
	}, nil)
	f.conversations.On("GetByUser", mock.Anything, userID).Return(nil, models.ErrNotFound)
	f.habits.On("ListByUser", mock.Anything, userID, false).Return([]models.Habit{
		{ID: uuid.New(), UserID: userID, Pillar: models.PillarPhysical, Name: "Morning run"},
	}, nil)
	f.conversations.On("Upsert", mock.Anything, mock.MatchedBy(func(c *models.Conversation) bool {
		return len(c.Messages) == 2 &&
			c.Messages[0].Role == models.RoleUser &&
			c.Messages[1].Role == models.RoleAssistant &&
			c.Messages[1].Content == gen.reply
	})).Return(nil)

	reply, err := f.service.Chat(context.Background(), userID, "How am I doing?")
	require.NoError(t, err)
	assert.Equal(t, gen.reply, reply)
	f.conversations.AssertExpectations(t)
}

func TestCoachChat_FreeTierRateLimited(t *testing.T) {
	userID := uuid.New()
	gen := &generatorStub{reply: "unused"}

	f := newCoachFixture(t, 10, gen)
	f.progress.On("GetOrCreate", mock.Anything, userID).Return(&models.UserProgress{
		UserID: userID, Tier: models.TierFree,
	}, nil)
	f.conversations.On("GetByUser", mock.Anything, userID).
		Return(conversationWithUserMessages(userID, 10, time.Now()), nil)

	_, err := f.service.Chat(context.Background(), userID, "one more?")
	assert.ErrorIs(t, err, models.ErrRateLimited)
	assert.Zero(t, gen.calls, "generation never runs past the limit")
	f.conversations.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCoachChat_PremiumBypassesLimit(t *testing.T) {
	userID := uuid.New()
	gen := &generatorStub{reply: "Of course."}

	f := newCoachFixture(t, 10, gen)
	f.progress.On("GetOrCreate", mock.Anything, userID).Return(&models.UserProgress{
		UserID: userID, Tier: models.TierPremium,
	}, nil)
	f.conversations.On("GetByUser", mock.Anything, userID).
		Return(conversationWithUserMessages(userID, 25, time.Now()), nil)
	f.habits.On("ListByUser", mock.Anything, userID, false).Return([]models.Habit{}, nil)
	f.conversations.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	reply, err := f.service.Chat(context.Background(), userID, "still there?")
	require.NoError(t, err)
	assert.Equal(t, gen.reply, reply)
}

func TestCoachChat_YesterdayMessagesDoNotCount(t *testing.T) {
	userID := uuid.New()
	gen := &generatorStub{reply: "Welcome back."}

	f := newCoachFixture(t, 10, gen)
	f.progress.On("GetOrCreate", mock.Anything, userID).Return(&models.UserProgress{
		UserID: userID, Tier: models.TierFree,
	}, nil)
	f.conversations.On("GetByUser", mock.Anything, userID).
		Return(conversationWithUserMessages(userID, 10, time.Now().AddDate(0, 0, -1)), nil)
	f.habits.On("ListByUser", mock.Anything, userID, false).Return([]models.Habit{}, nil)
	f.conversations.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.Chat(context.Background(), userID, "new day")
	require.NoError(t, err)
}

func TestCoachChat_GenerationFailureKeepsQuota(t *testing.T) {
	userID := uuid.New()
	gen := &generatorStub{err: errors.New("upstream down")}

	f := newCoachFixture(t, 10, gen)
	f.progress.On("GetOrCreate", mock.Anything, userID).Return(&models.UserProgress{
		UserID: userID, Tier: models.TierFree,
	}, nil)
	f.conversations.On("GetByUser", mock.Anything, userID).Return(nil, models.ErrNotFound)
	f.habits.On("ListByUser", mock.Anything, userID, false).Return([]models.Habit{}, nil)

	_, err := f.service.Chat(context.Background(), userID, "hello?")
	assert.ErrorIs(t, err, models.ErrCoachUnavailable)
	f.conversations.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCoachChat_EmptyMessage(t *testing.T) {
	f := newCoachFixture(t, 10, &generatorStub{})
	_, err := f.service.Chat(context.Background(), uuid.New(), "   ")
	assert.ErrorIs(t, err, models.ErrEmptyMessages)
}
