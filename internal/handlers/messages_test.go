package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/mocks"
	"messenger-service/internal/models"
	"messenger-service/internal/service"
)

func setupMessageRouter(msgs *mocks.MessageRepositoryMock, router *mocks.RouterMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	messages := service.NewMessageService(msgs, router)
	handler := NewMessageHandler(messages)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/messages/send", handler.Send)
	r.GET("/messages/:user_id", handler.History)
	return r
}

func TestSendMessageSuccess(t *testing.T) {
	msgs := new(mocks.MessageRepositoryMock)
	router := new(mocks.RouterMock)
	r := setupMessageRouter(msgs, router)

	msgs.On("CreateMessage", mock.Anything, mock.AnythingOfType("models.Message")).
		Return(models.Message{ID: 7, SenderID: 1, ReceiverID: 2, Content: "hi"}, nil).Once()
	router.On("Deliver", 2, mock.Anything).Once()

	body := `{"receiver_id":2,"content":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/messages/send", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	msgs.AssertExpectations(t)
	router.AssertExpectations(t)
}

func TestSendMessageEmptyPayload(t *testing.T) {
	msgs := new(mocks.MessageRepositoryMock)
	router := new(mocks.RouterMock)
	r := setupMessageRouter(msgs, router)

	body := `{"receiver_id":2,"content":""}`
	req := httptest.NewRequest(http.MethodPost, "/messages/send", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	msgs.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	router.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestSendMessageStorageFailure(t *testing.T) {
	msgs := new(mocks.MessageRepositoryMock)
	router := new(mocks.RouterMock)
	r := setupMessageRouter(msgs, router)

	msgs.On("CreateMessage", mock.Anything, mock.AnythingOfType("models.Message")).
		Return(models.Message{}, errors.New("connection reset")).Once()

	body := `{"receiver_id":2,"content":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/messages/send", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	router.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestHistoryReturnsPagination(t *testing.T) {
	msgs := new(mocks.MessageRepositoryMock)
	r := setupMessageRouter(msgs, new(mocks.RouterMock))

	msgs.On("FindBetween", mock.Anything, 1, 2, 1, 50).
		Return([]models.Message{{ID: 1, SenderID: 1, ReceiverID: 2, Content: "hi"}}, nil).Once()
	msgs.On("CountBetween", mock.Anything, 1, 2).Return(1, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages/2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages   []models.Message  `json:"messages"`
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	require.Equal(t, 1, resp.Pagination.TotalItems)
}

func TestHistoryBadUserID(t *testing.T) {
	r := setupMessageRouter(new(mocks.MessageRepositoryMock), new(mocks.RouterMock))

	req := httptest.NewRequest(http.MethodGet, "/messages/not-a-number", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
