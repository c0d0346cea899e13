// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"wellness-server/internal/models"
	"wellness-server/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// HabitRepository mocks repository.HabitRepository.
type HabitRepository struct {
	mock.Mock
}

func (m *HabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *HabitRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Habit, error) {
	args := m.Called(ctx, id, userID)
	habit, _ := args.Get(0).(*models.Habit)
	return habit, args.Error(1)
}

func (m *HabitRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.Habit, error) {
	args := m.Called(ctx, userID, includeArchived)
	habits, _ := args.Get(0).([]models.Habit)
	return habits, args.Error(1)
}

func (m *HabitRepository) Archive(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *HabitRepository) HasCompletions(ctx context.Context, habitID uuid.UUID) (bool, error) {
	args := m.Called(ctx, habitID)
	return args.Bool(0), args.Error(1)
}

func (m *HabitRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// CompletionRepository mocks repository.CompletionRepository.
type CompletionRepository struct {
	mock.Mock
}

func (m *CompletionRepository) Create(ctx context.Context, completion *models.HabitCompletion) error {
	args := m.Called(ctx, completion)
	return args.Error(0)
}

func (m *CompletionRepository) ExistsForDay(ctx context.Context, habitID, userID uuid.UUID, day time.Time) (bool, error) {
	args := m.Called(ctx, habitID, userID, day)
	return args.Bool(0), args.Error(1)
}

func (m *CompletionRepository) CountForUserDay(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	args := m.Called(ctx, userID, day)
	return args.Int(0), args.Error(1)
}

func (m *CompletionRepository) ListCompletionDays(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	args := m.Called(ctx, userID)
	days, _ := args.Get(0).(map[string]struct{})
	return days, args.Error(1)
}

func (m *CompletionRepository) ListWithPillarSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]repository.PillarCompletion, error) {
	args := m.Called(ctx, userID, since)
	completions, _ := args.Get(0).([]repository.PillarCompletion)
	return completions, args.Error(1)
}

func (m *CompletionRepository) CountByPillar(ctx context.Context, userID uuid.UUID) (map[models.Pillar]int, error) {
	args := m.Called(ctx, userID)
	counts, _ := args.Get(0).(map[models.Pillar]int)
	return counts, args.Error(1)
}

func (m *CompletionRepository) PillarsCompletedOn(ctx context.Context, userID uuid.UUID, day time.Time) (map[models.Pillar]bool, error) {
	args := m.Called(ctx, userID, day)
	pillars, _ := args.Get(0).(map[models.Pillar]bool)
	return pillars, args.Error(1)
}

// ProgressRepository mocks repository.ProgressRepository.
type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserProgress, error) {
	args := m.Called(ctx, userID)
	progress, _ := args.Get(0).(*models.UserProgress)
	return progress, args.Error(1)
}

func (m *ProgressRepository) UpdateStreak(ctx context.Context, userID uuid.UUID, current, longest int) error {
	args := m.Called(ctx, userID, current, longest)
	return args.Error(0)
}

func (m *ProgressRepository) AddXP(ctx context.Context, userID uuid.UUID, delta, level int) error {
	args := m.Called(ctx, userID, delta, level)
	return args.Error(0)
}

// AchievementRepository mocks repository.AchievementRepository.
type AchievementRepository struct {
	mock.Mock
}

func (m *AchievementRepository) ListUnlockedKeys(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	args := m.Called(ctx, userID)
	keys, _ := args.Get(0).(map[string]bool)
	return keys, args.Error(1)
}

func (m *AchievementRepository) RecordUnlocks(ctx context.Context, userID uuid.UUID, keys []string, at time.Time) error {
	args := m.Called(ctx, userID, keys, at)
	return args.Error(0)
}

func (m *AchievementRepository) CountReadingCompletions(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// ReferenceRepository mocks repository.ReferenceRepository.
type ReferenceRepository struct {
	mock.Mock
}

func (m *ReferenceRepository) Correlations(ctx context.Context, featuredOnly bool) ([]models.Correlation, error) {
	args := m.Called(ctx, featuredOnly)
	correlations, _ := args.Get(0).([]models.Correlation)
	return correlations, args.Error(1)
}

func (m *ReferenceRepository) HabitStacks(ctx context.Context, limit int) ([]models.HabitStack, error) {
	args := m.Called(ctx, limit)
	stacks, _ := args.Get(0).([]models.HabitStack)
	return stacks, args.Error(1)
}

func (m *ReferenceRepository) MultiplierOverrides(ctx context.Context, userID uuid.UUID) (map[models.Pillar]float64, error) {
	args := m.Called(ctx, userID)
	overrides, _ := args.Get(0).(map[models.Pillar]float64)
	return overrides, args.Error(1)
}

// ConversationRepository mocks repository.ConversationRepository.
type ConversationRepository struct {
	mock.Mock
}

func (m *ConversationRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, userID)
	conversation, _ := args.Get(0).(*models.Conversation)
	return conversation, args.Error(1)
}

func (m *ConversationRepository) Upsert(ctx context.Context, conversation *models.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}
