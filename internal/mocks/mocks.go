package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, username, email, phoneNumber, passwordHash string) (models.User, error) {
	args := m.Called(ctx, username, email, phoneNumber, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) FindByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) FindByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) SearchUsers(ctx context.Context, excludeID int, term string, page, limit int) ([]models.ContactView, int, error) {
	args := m.Called(ctx, excludeID, term, page, limit)
	var users []models.ContactView
	if val := args.Get(0); val != nil {
		users = val.([]models.ContactView)
	}
	return users, args.Int(1), args.Error(2)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, msg)
	var stored models.Message
	if val := args.Get(0); val != nil {
		stored = val.(models.Message)
	}
	return stored, args.Error(1)
}

func (m *MessageRepositoryMock) FindBetween(ctx context.Context, userA, userB, page, limit int) ([]models.Message, error) {
	args := m.Called(ctx, userA, userB, page, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) CountBetween(ctx context.Context, userA, userB int) (int, error) {
	args := m.Called(ctx, userA, userB)
	return args.Int(0), args.Error(1)
}

type RelationshipRepositoryMock struct {
	mock.Mock
}

func (m *RelationshipRepositoryMock) AreContacts(ctx context.Context, userID, otherID int) (bool, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Bool(0), args.Error(1)
}

func (m *RelationshipRepositoryMock) HasPendingRequest(ctx context.Context, receiverID, senderID int) (bool, error) {
	args := m.Called(ctx, receiverID, senderID)
	return args.Bool(0), args.Error(1)
}

func (m *RelationshipRepositoryMock) CreateRequest(ctx context.Context, receiverID, senderID int) error {
	args := m.Called(ctx, receiverID, senderID)
	return args.Error(0)
}

func (m *RelationshipRepositoryMock) AcceptRequest(ctx context.Context, receiverID, senderID int) error {
	args := m.Called(ctx, receiverID, senderID)
	return args.Error(0)
}

func (m *RelationshipRepositoryMock) DeleteRequest(ctx context.Context, receiverID, senderID int) error {
	args := m.Called(ctx, receiverID, senderID)
	return args.Error(0)
}

func (m *RelationshipRepositoryMock) ListRequests(ctx context.Context, receiverID int) ([]models.FriendRequestView, error) {
	args := m.Called(ctx, receiverID)
	var requests []models.FriendRequestView
	if val := args.Get(0); val != nil {
		requests = val.([]models.FriendRequestView)
	}
	return requests, args.Error(1)
}

func (m *RelationshipRepositoryMock) ListContacts(ctx context.Context, userID int, search string, page, limit int) ([]models.ContactView, int, error) {
	args := m.Called(ctx, userID, search, page, limit)
	var contacts []models.ContactView
	if val := args.Get(0); val != nil {
		contacts = val.([]models.ContactView)
	}
	return contacts, args.Int(1), args.Error(2)
}

type MediaRepositoryMock struct {
	mock.Mock
}

func (m *MediaRepositoryMock) CreateMedia(ctx context.Context, messageID *int, filePath, fileType string) (models.Media, error) {
	args := m.Called(ctx, messageID, filePath, fileType)
	var media models.Media
	if val := args.Get(0); val != nil {
		media = val.(models.Media)
	}
	return media, args.Error(1)
}

// RouterMock records deliveries handed to the event router.
type RouterMock struct {
	mock.Mock
}

func (m *RouterMock) Deliver(recipient int, event models.ServerEvent) {
	m.Called(recipient, event)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.RelationshipRepository = (*RelationshipRepositoryMock)(nil)
var _ repositories.MediaRepository = (*MediaRepositoryMock)(nil)
