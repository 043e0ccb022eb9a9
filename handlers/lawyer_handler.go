package handlers

import (
	"net/http"

	"lawqna-backend/auth"
	"lawqna-backend/store"

	"github.com/gin-gonic/gin"
)

// LawyerHandler handles lawyer self-service endpoints.
type LawyerHandler struct {
	store *store.Client
}

// NewLawyerHandler creates a new lawyer handler.
func NewLawyerHandler(storeClient *store.Client) *LawyerHandler {
	return &LawyerHandler{store: storeClient}
}

// VerificationRequest is the request body for submitting verification.
type VerificationRequest struct {
	Name                    string `json:"name" binding:"required"`
	VerificationDocumentURL string `json:"verification_document_url" binding:"required"`
}

// SubmitVerification handles POST /lawyers/verify. The profile is upserted
// keyed by user id with the status forced back to pending; approval happens
// only through admin action.
func (h *LawyerHandler) SubmitVerification(c *gin.Context) {
	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user := auth.CurrentUser(c)
	profile, err := h.store.UpsertLawyerProfile(c.Request.Context(), user.ID, req.Name, req.VerificationDocumentURL)
	if err != nil {
		respondStoreError(c, err, "Lawyer profile not found")
		return
	}

	respondData(c, http.StatusCreated, profile)
}

// GetProfile handles GET /lawyers/me.
func (h *LawyerHandler) GetProfile(c *gin.Context) {
	user := auth.CurrentUser(c)
	profile, err := h.store.GetLawyerProfile(c.Request.Context(), user.ID)
	if err != nil {
		respondStoreError(c, err, "Lawyer profile not found")
		return
	}
	if profile == nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Lawyer profile not found")
		return
	}

	respondData(c, http.StatusOK, profile)
}
