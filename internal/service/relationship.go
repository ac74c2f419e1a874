package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

// RelationshipService drives the contact / friend-request state machine.
// For a pair of users the states are: no relation, a pending request in
// one direction, or mutual contacts. Accepting applies both edge updates
// atomically; the repository transaction guarantees all-or-nothing.
type RelationshipService struct {
	users  repositories.UserRepository
	rel    repositories.RelationshipRepository
	router EventRouter
}

// NewRelationshipService constructs a RelationshipService.
func NewRelationshipService(users repositories.UserRepository, rel repositories.RelationshipRepository, router EventRouter) *RelationshipService {
	return &RelationshipService{users: users, rel: rel, router: router}
}

// Request records a pending friend request from sender at receiver and
// notifies the receiver live. Valid only when no relation exists yet in
// either direction.
func (s *RelationshipService) Request(ctx context.Context, senderID, receiverID int) error {
	if receiverID == senderID {
		return ErrSelfRequest
	}
	if _, err := s.users.FindByID(ctx, receiverID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUnknownUser
		}
		return err
	}

	contacts, err := s.rel.AreContacts(ctx, senderID, receiverID)
	if err != nil {
		return err
	}
	if contacts {
		return ErrAlreadyContacts
	}

	pending, err := s.rel.HasPendingRequest(ctx, receiverID, senderID)
	if err != nil {
		return err
	}
	if !pending {
		// A request already pending in the opposite direction also
		// blocks; the receiver should accept instead.
		pending, err = s.rel.HasPendingRequest(ctx, senderID, receiverID)
		if err != nil {
			return err
		}
	}
	if pending {
		return ErrAlreadyPending
	}

	if err := s.rel.CreateRequest(ctx, receiverID, senderID); err != nil {
		return err
	}

	log.WithFields(log.Fields{"sender": senderID, "receiver": receiverID}).Debug("friend request created")
	s.router.Deliver(receiverID, models.FriendRequestEvent(senderID))
	return nil
}

// Accept turns the pending request from requester at user into a mutual
// contact pair and notifies both parties live. A second accept of the
// same request fails with ErrNoSuchRequest.
func (s *RelationshipService) Accept(ctx context.Context, userID, requesterID int) error {
	if err := s.rel.AcceptRequest(ctx, userID, requesterID); err != nil {
		return err
	}

	log.WithFields(log.Fields{"user": userID, "requester": requesterID}).Debug("friend request accepted")
	s.router.Deliver(requesterID, models.FriendAcceptedEvent(userID))
	s.router.Deliver(userID, models.FriendAcceptedEvent(requesterID))
	return nil
}

// Decline removes the pending request from requester at user without
// creating a contact. The requester is not notified.
func (s *RelationshipService) Decline(ctx context.Context, userID, requesterID int) error {
	return s.rel.DeleteRequest(ctx, userID, requesterID)
}

// Requests lists the pending requests received by a user.
func (s *RelationshipService) Requests(ctx context.Context, userID int) ([]models.FriendRequestView, error) {
	return s.rel.ListRequests(ctx, userID)
}

// Contacts returns a page of the user's contacts with the pagination
// envelope, optionally filtered by a search term.
func (s *RelationshipService) Contacts(ctx context.Context, userID int, search string, page, limit int) ([]models.ContactView, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	contacts, total, err := s.rel.ListContacts(ctx, userID, search, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return contacts, models.NewPagination(page, limit, total), nil
}

// ContactByID resolves a single contact of the user.
func (s *RelationshipService) ContactByID(ctx context.Context, userID, contactID int) (models.ContactView, error) {
	isContact, err := s.rel.AreContacts(ctx, userID, contactID)
	if err != nil {
		return models.ContactView{}, err
	}
	if !isContact {
		return models.ContactView{}, ErrUnknownUser
	}
	user, err := s.users.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.ContactView{}, ErrUnknownUser
		}
		return models.ContactView{}, err
	}
	return models.ContactView{ID: user.ID, Username: user.Username, Email: user.Email, PhoneNumber: user.PhoneNumber}, nil
}
