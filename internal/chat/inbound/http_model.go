package inbound

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shandysiswandi/gosocial/internal/chat/entity"
	"github.com/shandysiswandi/gosocial/internal/chat/usecase"
)

type MessageResponse struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatResponse struct {
	ID           string            `json:"id"`
	Participants []string          `json:"participants"`
	Messages     []MessageResponse `json:"messages"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func toChatResponse(c *entity.Chat) ChatResponse {
	resp := ChatResponse{
		ID:           strconv.FormatInt(c.ID, 10),
		Participants: []string{strconv.FormatInt(c.LowID, 10), strconv.FormatInt(c.HighID, 10)},
		Messages:     make([]MessageResponse, 0, len(c.Messages)),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	for _, m := range c.Messages {
		resp.Messages = append(resp.Messages, MessageResponse{
			ID:        strconv.FormatInt(m.ID, 10),
			SenderID:  strconv.FormatInt(m.SenderID, 10),
			Message:   m.Body,
			CreatedAt: m.CreatedAt,
		})
	}
	return resp
}

type GetChatResponse struct {
	ChatResponse
	PeerOnline bool `json:"peer_online"`
}

func toGetChatResponse(out *usecase.GetChatOutput) GetChatResponse {
	return GetChatResponse{ChatResponse: toChatResponse(out.Chat), PeerOnline: out.PeerOnline}
}

// frame is an incoming {"event": ..., "data": ...} message.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SendMessageData takes dest_id as a number or a numeric string.
type SendMessageData struct {
	Message string      `json:"message"`
	DestID  json.Number `json:"dest_id"`
}

type SuccessMessageData struct {
	Message string       `json:"message"`
	Chat    ChatResponse `json:"chat"`
}

// ErrorData is sent with authError and errorMessage.
type ErrorData struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}
