package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chatlift/chatlift/internal/api/dto"
	"github.com/chatlift/chatlift/internal/chat"
)

// PublicWidgetHandler serves the unauthenticated embed endpoint. It is the
// only read path keyed by public key instead of a session.
type PublicWidgetHandler struct {
	widgets *chat.WidgetService
}

func NewPublicWidgetHandler(widgets *chat.WidgetService) *PublicWidgetHandler {
	return &PublicWidgetHandler{widgets: widgets}
}

// Config returns the embed configuration for a widget. When the owning
// tenant's subscription cannot serve, the response still succeeds but carries
// serving=false and a machine-readable reason, so the embed script can render
// a paused state instead of erroring.
func (h *PublicWidgetHandler) Config(w http.ResponseWriter, r *http.Request) {
	publicKey := chi.URLParam(r, "publicKey")

	widget, decision, err := h.widgets.PublicConfig(r.Context(), publicKey)
	if err != nil {
		switch err {
		case chat.ErrWidgetNotFound:
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Widget not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load widget"})
		}
		return
	}

	if !decision.Serve {
		writeJSON(w, http.StatusOK, dto.WidgetEmbedConfig{
			Serving: false,
			Reason:  string(decision.Reason),
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.WidgetEmbedConfig{
		Serving:     true,
		Name:        widget.Name,
		Greeting:    widget.Greeting,
		AccentColor: widget.AccentColor,
	})
}
