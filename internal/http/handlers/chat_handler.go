// README: Chat planning handlers (open conversation, turn loop, finalize into a trip).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"voyager/internal/ai"
	"voyager/internal/http/middleware"
	"voyager/internal/modules/itinerary"
)

type Turner interface {
	Turn(ctx context.Context, c *itinerary.Conversation, text string) (itinerary.TurnResult, error)
}

type ChatHandler struct {
	chat          Turner
	conversations *itinerary.ConversationStore
	trips         Collections
}

func NewChatHandler(chat Turner, conversations *itinerary.ConversationStore, col Collections) *ChatHandler {
	return &ChatHandler{chat: chat, conversations: conversations, trips: col}
}

type conversationResponse struct {
	ID       string       `json:"id"`
	Messages []ai.Message `json:"messages"`
}

// Start handles POST /api/chat.
func (h *ChatHandler) Start(c *gin.Context) {
	conv := h.conversations.Start(middleware.CallerUID(c))
	writeJSON(c, http.StatusCreated, conversationResponse{ID: conv.ID, Messages: conv.History()})
}

// History handles GET /api/chat/:id.
func (h *ChatHandler) History(c *gin.Context) {
	conv, err := h.conversations.Get(c.Param("id"), middleware.CallerUID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, conversationResponse{ID: conv.ID, Messages: conv.History()})
}

type chatMessageReq struct {
	Text string `json:"text"`
}

type turnResponse struct {
	Replies    []ai.Message    `json:"replies"`
	Finalizing bool            `json:"finalizing"`
	Trip       *itinerary.Trip `json:"trip,omitempty"`
	Paid       bool            `json:"paid,omitempty"`
	SaveError  *errorResponse  `json:"saveError,omitempty"`
}

// Send handles POST /api/chat/:id/messages. When the model signals it is
// ready the transcript is finalized and the trip goes through the same
// admission gate as a generated one; the conversation then ends.
func (h *ChatHandler) Send(c *gin.Context) {
	var req chatMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	conv, err := h.conversations.Get(c.Param("id"), middleware.CallerUID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	ctx := c.Request.Context()
	res, err := h.chat.Turn(ctx, conv, req.Text)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := turnResponse{Replies: res.Replies, Finalizing: res.Finalizing}
	if res.Trip != nil {
		added, err := managerFor(c, h.trips).AddTrip(ctx, res.Trip)
		if err != nil {
			out.SaveError = &errorResponse{Error: err.Error(), Retry: true}
		} else {
			out.Trip = added.Trip
			out.Paid = added.Paid
			h.conversations.Delete(conv.ID)
		}
	}
	writeJSON(c, http.StatusOK, out)
}
