package inbound

import (
	"github.com/shandysiswandi/gosocial/internal/chat/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) GetChat(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("userId")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.GetChat(r.Context(), usecase.GetChatInput{UserID: id})
	if err != nil {
		return nil, err
	}

	return toGetChatResponse(out), nil
}
