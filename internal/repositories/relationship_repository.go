package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

var ErrNoSuchRequest = errors.New("no such friend request")

// RelationshipRepository persists the contact and friend-request edge sets.
// Contacts are stored symmetrically (one row per direction); pending
// requests are stored on the receiver side only.
type RelationshipRepository interface {
	AreContacts(ctx context.Context, userID, otherID int) (bool, error)
	HasPendingRequest(ctx context.Context, receiverID, senderID int) (bool, error)
	CreateRequest(ctx context.Context, receiverID, senderID int) error
	AcceptRequest(ctx context.Context, receiverID, senderID int) error
	DeleteRequest(ctx context.Context, receiverID, senderID int) error
	ListRequests(ctx context.Context, receiverID int) ([]models.FriendRequestView, error)
	ListContacts(ctx context.Context, userID int, search string, page, limit int) ([]models.ContactView, int, error)
}

// RelationshipRepo is a sqlx implementation of RelationshipRepository.
type RelationshipRepo struct {
	db *sqlx.DB
}

// NewRelationshipRepo constructs a RelationshipRepo.
func NewRelationshipRepo(db *sqlx.DB) *RelationshipRepo {
	return &RelationshipRepo{db: db}
}

// AreContacts reports whether the two users are confirmed contacts.
func (r *RelationshipRepo) AreContacts(ctx context.Context, userID, otherID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM contacts WHERE user_id=$1 AND contact_id=$2)`, userID, otherID)
	return exists, err
}

// HasPendingRequest reports whether sender already has a request pending
// at receiver.
func (r *RelationshipRepo) HasPendingRequest(ctx context.Context, receiverID, senderID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM friend_requests WHERE receiver_id=$1 AND sender_id=$2)`, receiverID, senderID)
	return exists, err
}

// CreateRequest records a pending friend request on the receiver.
func (r *RelationshipRepo) CreateRequest(ctx context.Context, receiverID, senderID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO friend_requests (receiver_id, sender_id) VALUES ($1, $2)
        ON CONFLICT (receiver_id, sender_id) DO NOTHING`, receiverID, senderID)
	return err
}

// AcceptRequest consumes the pending request and records the contact on
// both sides in one transaction. Either every row changes or none does.
func (r *RelationshipRepo) AcceptRequest(ctx context.Context, receiverID, senderID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin accept tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM friend_requests WHERE receiver_id=$1 AND sender_id=$2`, receiverID, senderID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoSuchRequest
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO contacts (user_id, contact_id) VALUES ($1, $2)
        ON CONFLICT (user_id, contact_id) DO NOTHING`, receiverID, senderID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO contacts (user_id, contact_id) VALUES ($1, $2)
        ON CONFLICT (user_id, contact_id) DO NOTHING`, senderID, receiverID); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteRequest removes a pending request without creating a contact.
func (r *RelationshipRepo) DeleteRequest(ctx context.Context, receiverID, senderID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friend_requests WHERE receiver_id=$1 AND sender_id=$2`, receiverID, senderID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoSuchRequest
	}
	return nil
}

// ListRequests returns the pending requests received by a user, newest first.
func (r *RelationshipRepo) ListRequests(ctx context.Context, receiverID int) ([]models.FriendRequestView, error) {
	var requests []models.FriendRequestView
	err := r.db.SelectContext(ctx, &requests, `SELECT fr.sender_id, u.username, fr.created_at
        FROM friend_requests fr
        JOIN users u ON u.id = fr.sender_id
        WHERE fr.receiver_id=$1
        ORDER BY fr.created_at DESC`, receiverID)
	return requests, err
}

// ListContacts returns a page of the user's contacts, optionally filtered,
// plus the total matching count.
func (r *RelationshipRepo) ListContacts(ctx context.Context, userID int, search string, page, limit int) ([]models.ContactView, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	pattern := "%" + search + "%"

	var contacts []models.ContactView
	err := r.db.SelectContext(ctx, &contacts, `SELECT u.id, u.username, u.email, u.phone_number
        FROM contacts c
        JOIN users u ON u.id = c.contact_id
        WHERE c.user_id=$1 AND (u.username ILIKE $2 OR u.email ILIKE $2 OR u.phone_number ILIKE $2)
        ORDER BY u.username ASC
        LIMIT $3 OFFSET $4`, userID, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.GetContext(ctx, &total, `SELECT COUNT(*)
        FROM contacts c
        JOIN users u ON u.id = c.contact_id
        WHERE c.user_id=$1 AND (u.username ILIKE $2 OR u.email ILIKE $2 OR u.phone_number ILIKE $2)`, userID, pattern)
	return contacts, total, err
}
