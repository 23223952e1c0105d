package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chatlift/chatlift/internal/api/dto"
	"github.com/chatlift/chatlift/internal/api/middleware"
	"github.com/chatlift/chatlift/internal/chat"
	"github.com/chatlift/chatlift/internal/database/models"
)

type LeadHandler struct {
	leads *chat.LeadService
}

func NewLeadHandler(leads *chat.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := chat.LeadFilter{
		Page:    queryInt(r, "page"),
		PerPage: queryInt(r, "per_page"),
	}
	if widgetID, err := uuid.Parse(r.URL.Query().Get("widget_id")); err == nil {
		filter.WidgetID = &widgetID
	}

	leads, total, err := h.leads.List(r.Context(), middleware.GetTenantID(r.Context()), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list leads"})
		return
	}

	out := make([]dto.LeadDTO, 0, len(leads))
	for i := range leads {
		out = append(out, leadDTO(&leads[i]))
	}

	writeJSON(w, http.StatusOK, paginated(out, total, filter.Page, filter.PerPage))
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid lead ID"})
		return
	}

	lead, err := h.leads.Get(r.Context(), middleware.GetTenantID(r.Context()), id)
	if err != nil {
		switch err {
		case chat.ErrLeadNotFound:
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Lead not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load lead"})
		}
		return
	}

	writeJSON(w, http.StatusOK, leadDTO(lead))
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid lead ID"})
		return
	}

	var req dto.UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	lead, err := h.leads.Update(r.Context(), middleware.GetTenantID(r.Context()), id, chat.LeadInput{
		Email: req.Email,
		Name:  req.Name,
		Notes: req.Notes,
	})
	if err != nil {
		switch err {
		case chat.ErrLeadNotFound:
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Lead not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update lead"})
		}
		return
	}

	writeJSON(w, http.StatusOK, leadDTO(lead))
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid lead ID"})
		return
	}

	if err := h.leads.Delete(r.Context(), middleware.GetTenantID(r.Context()), id); err != nil {
		switch err {
		case chat.ErrLeadNotFound:
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Lead not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete lead"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Lead deleted"})
}

func leadDTO(lead *models.Lead) dto.LeadDTO {
	return dto.LeadDTO{
		ID:        lead.ID.String(),
		WidgetID:  lead.WidgetID.String(),
		Email:     lead.Email,
		Name:      lead.Name,
		Notes:     lead.Notes,
		CreatedAt: lead.CreatedAt.Format(time.RFC3339),
	}
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func paginated(data interface{}, total int64, page, perPage int) dto.PaginatedResponse {
	params := dto.PaginationParams{Page: page, PerPage: perPage}
	params.Normalize()

	totalPages := int((total + int64(params.PerPage) - 1) / int64(params.PerPage))
	return dto.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
	}
}
