package entity

import "time"

// Chat is the single conversation between two accounts, stored with the
// smaller id first.
type Chat struct {
	ID        int64
	LowID     int64
	HighID    int64
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID        int64
	ChatID    int64
	SenderID  int64
	Body      string
	CreatedAt time.Time
}

// Participants orders two account ids the way chats are keyed.
func Participants(a, b int64) (low, high int64) {
	if a < b {
		return a, b
	}
	return b, a
}
