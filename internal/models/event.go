package models

// WebSocket event type tags. Client-to-server and server-to-client events
// share one envelope; the tag decides which fields are meaningful.
const (
	// inbound
	EventSendMessage          = "sendMessage"
	EventSendFriendRequest    = "sendFriendRequest"
	EventAcceptFriendRequest  = "acceptFriendRequest"
	EventDeclineFriendRequest = "declineFriendRequest"

	// outbound
	EventReceiveMessage        = "receiveMessage"
	EventMessageSent           = "messageSent"
	EventNewFriendRequest      = "newFriendRequest"
	EventFriendRequestAccepted = "friendRequestAccepted"
	EventError                 = "error"
)

// ClientEvent is an inbound event read off a websocket connection. It is
// decoded at the boundary and validated before reaching any pipeline.
type ClientEvent struct {
	Type         string `json:"type"`
	ReceiverID   int    `json:"receiverId,omitempty"`
	Content      string `json:"content,omitempty"`
	MediaURL     string `json:"mediaUrl,omitempty"`
	MediaType    string `json:"mediaType,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	// RequestID is the user id of the requester whose pending
	// request is being accepted or declined.
	RequestID int `json:"requestId,omitempty"`
}

// ServerEvent is an outbound event pushed to websocket connections.
type ServerEvent struct {
	Type     string   `json:"type"`
	Message  *Message `json:"message,omitempty"`
	SenderID int      `json:"senderId,omitempty"`
	UserID   int      `json:"userId,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// MessageEvent builds the receiveMessage push for a stored message.
func MessageEvent(msg Message) ServerEvent {
	return ServerEvent{Type: EventReceiveMessage, Message: &msg, SenderID: msg.SenderID}
}

// MessageSentEvent builds the sender-side ack for a stored message.
func MessageSentEvent(msg Message) ServerEvent {
	return ServerEvent{Type: EventMessageSent, Message: &msg}
}

// FriendRequestEvent notifies a receiver about a new pending request.
func FriendRequestEvent(senderID int) ServerEvent {
	return ServerEvent{Type: EventNewFriendRequest, SenderID: senderID}
}

// FriendAcceptedEvent notifies a party that a request became a contact.
func FriendAcceptedEvent(userID int) ServerEvent {
	return ServerEvent{Type: EventFriendRequestAccepted, UserID: userID}
}

// ErrorEvent reports a failed inbound event back to the same connection.
func ErrorEvent(msg string) ServerEvent {
	return ServerEvent{Type: EventError, Error: msg}
}
