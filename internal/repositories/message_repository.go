package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository abstracts direct-message persistence.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg models.Message) (models.Message, error)
	FindBetween(ctx context.Context, userA, userB, page, limit int) ([]models.Message, error)
	CountBetween(ctx context.Context, userA, userB int) (int, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a direct message and returns it with its assigned
// id and server timestamp.
func (r *MessageRepo) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	var stored models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, receiver_id, content, media_url, media_type, thumbnail_url)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, sender_id, receiver_id, content, media_url, media_type, thumbnail_url, created_at`,
		msg.SenderID, msg.ReceiverID, msg.Content, msg.MediaURL, msg.MediaType, msg.ThumbnailURL).
		StructScan(&stored)
	return stored, err
}

// FindBetween returns the conversation between two users, oldest first,
// ties broken by insertion order.
func (r *MessageRepo) FindBetween(ctx context.Context, userA, userB, page, limit int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	query := `SELECT id, sender_id, receiver_id, content, media_url, media_type, thumbnail_url, created_at
        FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
        ORDER BY created_at ASC, id ASC
        LIMIT $3 OFFSET $4`
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, userA, userB, limit, offset)
	return msgs, err
}

// CountBetween returns the size of the conversation between two users.
func (r *MessageRepo) CountBetween(ctx context.Context, userA, userB int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)`, userA, userB)
	return count, err
}
