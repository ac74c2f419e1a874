package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

// MediaRepository records uploaded files.
type MediaRepository interface {
	CreateMedia(ctx context.Context, messageID *int, filePath, fileType string) (models.Media, error)
}

// MediaRepo is a sqlx implementation of MediaRepository.
type MediaRepo struct {
	db *sqlx.DB
}

// NewMediaRepo constructs a MediaRepo.
func NewMediaRepo(db *sqlx.DB) *MediaRepo {
	return &MediaRepo{db: db}
}

// CreateMedia stores an upload record.
func (r *MediaRepo) CreateMedia(ctx context.Context, messageID *int, filePath, fileType string) (models.Media, error) {
	var media models.Media
	err := r.db.QueryRowxContext(ctx, `INSERT INTO media (message_id, file_path, file_type)
        VALUES ($1, $2, $3)
        RETURNING id, message_id, file_path, file_type, created_at`,
		messageID, filePath, fileType).
		StructScan(&media)
	return media, err
}
