package models

import "time"

type Message struct {
	ID             string    `json:"id"`
	RoomID         string    `json:"roomId"`
	SenderID       string    `json:"senderId"`
	SenderUsername string    `json:"senderUsername"`
	Body           string    `json:"body"`
	Timestamp      time.Time `json:"timestamp"`
}

type MessageListParams struct {
	Since *time.Time
	Limit int
}
