package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wellness-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ ConversationRepository = (*pgConversationRepository)(nil)

type pgConversationRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgConversationRepository creates a new PostgreSQL-backed conversation
// store. Messages are kept as one jsonb document per user.
func NewPgConversationRepository(pool *pgxpool.Pool, logger *zap.Logger) ConversationRepository {
	return &pgConversationRepository{
		pool:   pool,
		logger: logger.Named("PgConversationRepo"),
	}
}

const getConversationQuery = `
SELECT id, user_id, messages, updated_at
FROM coach_conversations
WHERE user_id = $1`

const upsertConversationQuery = `
INSERT INTO coach_conversations (id, user_id, messages, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET
    messages = EXCLUDED.messages,
    updated_at = EXCLUDED.updated_at`

func (r *pgConversationRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	conversation := &models.Conversation{}
	var messagesJSON []byte

	err := r.pool.QueryRow(ctx, getConversationQuery, userID).Scan(
		&conversation.ID,
		&conversation.UserID,
		&messagesJSON,
		&conversation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get conversation", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	if err := json.Unmarshal(messagesJSON, &conversation.Messages); err != nil {
		r.logger.Error("Failed to unmarshal conversation messages", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return conversation, nil
}

func (r *pgConversationRepository) Upsert(ctx context.Context, conversation *models.Conversation) error {
	if conversation.ID == uuid.Nil {
		conversation.ID = uuid.New()
	}
	conversation.UpdatedAt = time.Now()

	messagesJSON, err := json.Marshal(conversation.Messages)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, upsertConversationQuery,
		conversation.ID, conversation.UserID, messagesJSON, conversation.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert conversation", zap.Stringer("userID", conversation.UserID), zap.Error(err))
		return err
	}
	return nil
}
