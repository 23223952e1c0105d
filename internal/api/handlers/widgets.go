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

type WidgetHandler struct {
	widgets *chat.WidgetService
}

func NewWidgetHandler(widgets *chat.WidgetService) *WidgetHandler {
	return &WidgetHandler{widgets: widgets}
}

func (h *WidgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	widget, err := h.widgets.Create(r.Context(), middleware.GetTenantID(r.Context()), chat.WidgetInput{
		Name:          req.Name,
		Greeting:      req.Greeting,
		AccentColor:   req.AccentColor,
		ModelProvider: req.ModelProvider,
		APIKey:        req.APIKey,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create widget"})
		return
	}

	writeJSON(w, http.StatusCreated, widgetDTO(widget))
}

func (h *WidgetHandler) List(w http.ResponseWriter, r *http.Request) {
	widgets, err := h.widgets.List(r.Context(), middleware.GetTenantID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list widgets"})
		return
	}

	out := make([]dto.WidgetDTO, 0, len(widgets))
	for i := range widgets {
		out = append(out, widgetDTO(&widgets[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WidgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid widget ID"})
		return
	}

	widget, err := h.widgets.Get(r.Context(), middleware.GetTenantID(r.Context()), id)
	if err != nil {
		switch err {
		case chat.ErrWidgetNotFound:
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Widget not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load widget"})
		}
		return
	}

	writeJSON(w, http.StatusOK, widgetDTO(widget))
}

func (h *WidgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid widget ID"})
		return
	}

	var req dto.UpdateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	widget, err := h.widgets.Update(r.Context(), middleware.GetTenantID(r.Context()), id, chat.WidgetInput{
		Name:          req.Name,
		Greeting:      req.Greeting,
		AccentColor:   req.AccentColor,
		ModelProvider: req.ModelProvider,
		APIKey:        req.APIKey,
		IsActive:      req.IsActive,
	})
	if err != nil {
		switch err {
		case chat.ErrWidgetNotFound:
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Widget not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update widget"})
		}
		return
	}

	writeJSON(w, http.StatusOK, widgetDTO(widget))
}

func (h *WidgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid widget ID"})
		return
	}

	if err := h.widgets.Delete(r.Context(), middleware.GetTenantID(r.Context()), id); err != nil {
		switch err {
		case chat.ErrWidgetNotFound:
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Widget not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete widget"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Widget deleted"})
}

func widgetDTO(widget *models.Widget) dto.WidgetDTO {
	return dto.WidgetDTO{
		ID:            widget.ID.String(),
		Name:          widget.Name,
		PublicKey:     widget.PublicKey,
		Greeting:      widget.Greeting,
		AccentColor:   widget.AccentColor,
		ModelProvider: widget.ModelProvider,
		HasAPIKey:     widget.APIKeyCiphertext != "",
		IsActive:      widget.IsActive,
		CreatedAt:     widget.CreatedAt.Format(time.RFC3339),
	}
}
