package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/mocks"
	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

func newRelationshipFixture() (*mocks.UserRepositoryMock, *mocks.RelationshipRepositoryMock, *mocks.RouterMock, *RelationshipService) {
	users := new(mocks.UserRepositoryMock)
	rel := new(mocks.RelationshipRepositoryMock)
	router := new(mocks.RouterMock)
	return users, rel, router, NewRelationshipService(users, rel, router)
}

func TestRequestCreatesPendingAndNotifies(t *testing.T) {
	users, rel, router, svc := newRelationshipFixture()

	users.On("FindByID", mock.Anything, 2).Return(models.User{ID: 2, Username: "bob"}, nil).Once()
	rel.On("AreContacts", mock.Anything, 1, 2).Return(false, nil).Once()
	rel.On("HasPendingRequest", mock.Anything, 2, 1).Return(false, nil).Once()
	rel.On("HasPendingRequest", mock.Anything, 1, 2).Return(false, nil).Once()
	rel.On("CreateRequest", mock.Anything, 2, 1).Return(nil).Once()
	router.On("Deliver", 2, mock.MatchedBy(func(e models.ServerEvent) bool {
		return e.Type == models.EventNewFriendRequest && e.SenderID == 1
	})).Once()

	require.NoError(t, svc.Request(context.Background(), 1, 2))
	rel.AssertExpectations(t)
	router.AssertExpectations(t)
}

func TestRequestToSelf(t *testing.T) {
	_, _, _, svc := newRelationshipFixture()
	assert.ErrorIs(t, svc.Request(context.Background(), 1, 1), ErrSelfRequest)
}

func TestRequestUnknownReceiver(t *testing.T) {
	users, _, _, svc := newRelationshipFixture()
	users.On("FindByID", mock.Anything, 9).Return(models.User{}, repositories.ErrUserNotFound).Once()

	assert.ErrorIs(t, svc.Request(context.Background(), 1, 9), ErrUnknownUser)
}

func TestRequestAlreadyContacts(t *testing.T) {
	users, rel, router, svc := newRelationshipFixture()
	users.On("FindByID", mock.Anything, 2).Return(models.User{ID: 2}, nil).Once()
	rel.On("AreContacts", mock.Anything, 1, 2).Return(true, nil).Once()

	assert.ErrorIs(t, svc.Request(context.Background(), 1, 2), ErrAlreadyContacts)
	router.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestRequestAlreadyPending(t *testing.T) {
	users, rel, router, svc := newRelationshipFixture()
	users.On("FindByID", mock.Anything, 2).Return(models.User{ID: 2}, nil).Once()
	rel.On("AreContacts", mock.Anything, 1, 2).Return(false, nil).Once()
	rel.On("HasPendingRequest", mock.Anything, 2, 1).Return(true, nil).Once()

	assert.ErrorIs(t, svc.Request(context.Background(), 1, 2), ErrAlreadyPending)
	rel.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything, mock.Anything)
	router.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestRequestBlockedByReversePending(t *testing.T) {
	users, rel, _, svc := newRelationshipFixture()
	users.On("FindByID", mock.Anything, 2).Return(models.User{ID: 2}, nil).Once()
	rel.On("AreContacts", mock.Anything, 1, 2).Return(false, nil).Once()
	rel.On("HasPendingRequest", mock.Anything, 2, 1).Return(false, nil).Once()
	rel.On("HasPendingRequest", mock.Anything, 1, 2).Return(true, nil).Once()

	assert.ErrorIs(t, svc.Request(context.Background(), 1, 2), ErrAlreadyPending)
}

func TestAcceptNotifiesBothParties(t *testing.T) {
	_, rel, router, svc := newRelationshipFixture()

	rel.On("AcceptRequest", mock.Anything, 2, 1).Return(nil).Once()
	router.On("Deliver", 1, mock.MatchedBy(func(e models.ServerEvent) bool {
		return e.Type == models.EventFriendRequestAccepted && e.UserID == 2
	})).Once()
	router.On("Deliver", 2, mock.MatchedBy(func(e models.ServerEvent) bool {
		return e.Type == models.EventFriendRequestAccepted && e.UserID == 1
	})).Once()

	require.NoError(t, svc.Accept(context.Background(), 2, 1))
	rel.AssertExpectations(t)
	router.AssertExpectations(t)
}

func TestAcceptWithoutPendingRequest(t *testing.T) {
	_, rel, router, svc := newRelationshipFixture()
	rel.On("AcceptRequest", mock.Anything, 2, 1).Return(repositories.ErrNoSuchRequest).Once()

	assert.ErrorIs(t, svc.Accept(context.Background(), 2, 1), ErrNoSuchRequest)
	router.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestDeclineRemovesPendingOnly(t *testing.T) {
	_, rel, router, svc := newRelationshipFixture()
	rel.On("DeleteRequest", mock.Anything, 2, 1).Return(nil).Once()

	require.NoError(t, svc.Decline(context.Background(), 2, 1))
	router.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestContactsPagination(t *testing.T) {
	_, rel, _, svc := newRelationshipFixture()
	contacts := []models.ContactView{{ID: 2, Username: "bob"}}
	rel.On("ListContacts", mock.Anything, 1, "", 1, 20).Return(contacts, 41, nil).Once()

	got, pagination, err := svc.Contacts(context.Background(), 1, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, contacts, got)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasNextPage)
	assert.False(t, pagination.HasPrevPage)
}
