package models

import "time"

// Message represents a direct message between two users. Messages are
// immutable once stored; media fields are set only for media messages.
type Message struct {
	ID           int       `db:"id" json:"id"`
	SenderID     int       `db:"sender_id" json:"sender_id"`
	ReceiverID   int       `db:"receiver_id" json:"receiver_id"`
	Content      string    `db:"content" json:"content"`
	MediaURL     *string   `db:"media_url" json:"media_url,omitempty"`
	MediaType    *string   `db:"media_type" json:"media_type,omitempty"`
	ThumbnailURL *string   `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// HasMedia reports whether the message carries a media attachment.
func (m Message) HasMedia() bool {
	return m.MediaURL != nil && *m.MediaURL != ""
}

// Media is an uploaded file recorded against a message.
type Media struct {
	ID        int       `db:"id" json:"id"`
	MessageID *int      `db:"message_id" json:"message_id,omitempty"`
	FilePath  string    `db:"file_path" json:"file_path"`
	FileType  string    `db:"file_type" json:"file_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
