package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gosocial/internal/chat/hub"
	"github.com/shandysiswandi/gosocial/internal/chat/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
)

type SocketConfig struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
	// AllowedOrigins lists accepted Origin headers; empty or "*" accepts any.
	AllowedOrigins []string
}

func (c SocketConfig) withDefaults() SocketConfig {
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 8 << 10
	}
	return c
}

// SocketHandler serves /ws/chat.
type SocketHandler struct {
	uc       uc
	cfg      SocketConfig
	upgrader websocket.Upgrader
}

func NewSocketHandler(uc uc, cfg SocketConfig) *SocketHandler {
	cfg = cfg.withDefaults()
	return &SocketHandler{
		uc:  uc,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(cfg.AllowedOrigins) == 0 ||
					lo.Contains(cfg.AllowedOrigins, "*") || lo.Contains(cfg.AllowedOrigins, origin)
			},
		},
	}
}

// authorization prefers the header; browsers cannot set it on a socket, so
// the query parameter is accepted too.
func authorization(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("Authorization")); v != "" {
		return v
	}
	return strings.TrimSpace(r.URL.Query().Get("authorization"))
}

func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "failed to upgrade chat socket", "error", err)
		return
	}
	sock := hub.NewSocket(ws, h.cfg.WriteWait)
	defer func() {
		if err := sock.Close(); err != nil {
			slog.DebugContext(ctx, "failed to close chat socket", "error", err)
		}
	}()

	clm, err := h.uc.Connect(ctx, authorization(r), sock)
	if err != nil {
		h.sendError(ctx, sock, usecase.EventAuthError, err)
		return
	}
	defer h.uc.Disconnect(context.WithoutCancel(ctx), clm.UserID, sock)
	ctx = jwt.SetAuth(ctx, clm)

	ws.SetReadLimit(h.cfg.MaxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(sock, done)

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.WarnContext(ctx, "chat socket closed unexpectedly", "account_id", clm.UserID, "error", err)
			}
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			h.sendError(ctx, sock, usecase.EventErrorMessage, goerror.NewInvalidFormat("Invalid frame"))
			continue
		}
		h.dispatch(ctx, sock, clm, f)
	}
}

func (h *SocketHandler) keepAlive(sock *hub.Socket, done <-chan struct{}) {
	ticker := time.NewTicker(h.cfg.PongWait * 9 / 10)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := sock.Ping(); err != nil {
				return
			}
		}
	}
}

func (h *SocketHandler) dispatch(ctx context.Context, sock *hub.Socket, clm jwt.Claims, f frame) {
	switch f.Event {
	case usecase.EventSendMessage:
		h.sendMessage(ctx, sock, clm, f.Data)
	default:
		h.sendError(ctx, sock, usecase.EventErrorMessage, goerror.NewInvalidFormat("Unknown event "+f.Event))
	}
}

func (h *SocketHandler) sendMessage(ctx context.Context, sock *hub.Socket, clm jwt.Claims, raw json.RawMessage) {
	var data SendMessageData
	if err := json.Unmarshal(raw, &data); err != nil {
		h.sendError(ctx, sock, usecase.EventErrorMessage, goerror.NewInvalidFormat("Invalid sendMessage data"))
		return
	}
	dest, err := data.DestID.Int64()
	if err != nil {
		h.sendError(ctx, sock, usecase.EventErrorMessage, goerror.NewInvalidFormat("dest_id must be an account id"))
		return
	}

	out, err := h.uc.SendMessage(ctx, usecase.SendMessageInput{
		SenderID: clm.UserID,
		DestID:   dest,
		Message:  data.Message,
	})
	if err != nil {
		h.sendError(ctx, sock, usecase.EventErrorMessage, err)
		return
	}

	if err := sock.Send(hub.Event{Name: usecase.EventSuccessMessage, Data: SuccessMessageData{
		Message: out.Message,
		Chat:    toChatResponse(out.Chat),
	}}); err != nil {
		slog.WarnContext(ctx, "failed to confirm chat message", "account_id", clm.UserID, "error", err)
	}
}

func (h *SocketHandler) sendError(ctx context.Context, sock hub.Conn, event string, err error) {
	data := ErrorData{Message: "Internal server error", StatusCode: http.StatusInternalServerError}
	if gerr, ok := goerror.As(err); ok {
		data = ErrorData{Message: gerr.Msg(), StatusCode: gerr.StatusCode()}
	}
	if data.StatusCode >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "chat socket failure", "event", event, "error", err)
	}

	if err := sock.Send(hub.Event{Name: event, Data: data}); err != nil {
		slog.DebugContext(ctx, "failed to send chat error", "event", event, "error", err)
	}
}
