package handlers

import (
	"net/http"

	"github.com/chatlift/chatlift/internal/api/dto"
	"github.com/chatlift/chatlift/internal/api/middleware"
	"github.com/chatlift/chatlift/internal/billing"
)

type BillingHandler struct {
	billing *billing.Service
}

func NewBillingHandler(service *billing.Service) *BillingHandler {
	return &BillingHandler{billing: service}
}

func (h *BillingHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.billing.GetSnapshot(r.Context(), middleware.GetTenantID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load subscription"})
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// StartCheckout creates a hosted checkout session and returns its URL. The
// customer record is created on first use and reused afterwards.
func (h *BillingHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	url, err := h.billing.StartCheckout(r.Context(), sess.TenantID, sess.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to start checkout"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *BillingHandler) OpenPortal(w http.ResponseWriter, r *http.Request) {
	url, err := h.billing.OpenPortal(r.Context(), middleware.GetTenantID(r.Context()))
	if err != nil {
		switch err {
		case billing.ErrNoBillingAccount:
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "No billing account yet; start a checkout first"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to open billing portal"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
