package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gosocial/internal/chat/hub"
	"github.com/shandysiswandi/gosocial/internal/chat/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
	"github.com/shandysiswandi/gosocial/internal/pkg/router"
)

type uc interface {
	GetChat(ctx context.Context, in usecase.GetChatInput) (*usecase.GetChatOutput, error)

	Connect(ctx context.Context, authorization string, conn hub.Conn) (jwt.Claims, error)
	Disconnect(ctx context.Context, accountID int64, conn hub.Conn)
	SendMessage(ctx context.Context, in usecase.SendMessageInput) (*usecase.SendMessageOutput, error)
}

// RegisterHTTPEndpoint mounts the history endpoint and the socket. The socket
// authenticates itself after the upgrade so it can answer with authError.
func RegisterHTTPEndpoint(r *router.Router, uc uc, cfg SocketConfig) {
	end := &HTTPEndpoint{uc: uc}
	r.GET("/api/v1/chat/:userId", end.GetChat)

	r.GETRaw("/ws/chat", NewSocketHandler(uc, cfg))
	r.Public(http.MethodGet, "/ws/chat")
}
