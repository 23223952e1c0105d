package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chatlift/chatlift/internal/api/dto"
	"github.com/chatlift/chatlift/internal/api/middleware"
	"github.com/chatlift/chatlift/internal/chat"
	"github.com/chatlift/chatlift/internal/database/models"
)

type ConversationHandler struct {
	conversations *chat.ConversationService
}

func NewConversationHandler(conversations *chat.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := chat.ConversationFilter{
		Page:    queryInt(r, "page"),
		PerPage: queryInt(r, "per_page"),
	}
	if widgetID, err := uuid.Parse(r.URL.Query().Get("widget_id")); err == nil {
		filter.WidgetID = &widgetID
	}
	if leadID, err := uuid.Parse(r.URL.Query().Get("lead_id")); err == nil {
		filter.LeadID = &leadID
	}

	conversations, total, err := h.conversations.List(r.Context(), middleware.GetTenantID(r.Context()), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list conversations"})
		return
	}

	out := make([]dto.ConversationDTO, 0, len(conversations))
	for i := range conversations {
		// Message bodies are omitted from list responses; Get returns them.
		out = append(out, conversationDTO(&conversations[i], false))
	}

	writeJSON(w, http.StatusOK, paginated(out, total, filter.Page, filter.PerPage))
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid conversation ID"})
		return
	}

	conversation, err := h.conversations.Get(r.Context(), middleware.GetTenantID(r.Context()), id)
	if err != nil {
		switch err {
		case chat.ErrConversationNotFound:
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Conversation not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load conversation"})
		}
		return
	}

	writeJSON(w, http.StatusOK, conversationDTO(conversation, true))
}

func conversationDTO(c *models.Conversation, withMessages bool) dto.ConversationDTO {
	out := dto.ConversationDTO{
		ID:            c.ID.String(),
		WidgetID:      c.WidgetID.String(),
		VisitorKey:    c.VisitorKey,
		StartedAt:     c.StartedAt.Format(time.RFC3339),
		LastMessageAt: c.LastMessageAt.Format(time.RFC3339),
	}
	if c.LeadID != nil {
		out.LeadID = c.LeadID.String()
	}
	if withMessages {
		out.Messages = json.RawMessage(c.Messages)
	}
	return out
}
