package handlers

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"lawqna-backend/auth"
	"lawqna-backend/models"
	"lawqna-backend/storage"
	"lawqna-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxUploadSize bounds reference document uploads.
const maxUploadSize = 10 * 1024 * 1024 // 10MB

// Ingester is the ingestion pipeline as seen by the admin handler.
type Ingester interface {
	Ingest(ctx context.Context, documentID uuid.UUID, text string) (int, error)
}

// AdminHandler handles admin endpoints: lawyer verification decisions and
// reference document management.
type AdminHandler struct {
	store   *store.Client
	files   storage.Storage
	ingest  Ingester
	log     *logrus.Logger
	allowed map[string]bool
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(storeClient *store.Client, files storage.Storage, ingest Ingester, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		store:  storeClient,
		files:  files,
		ingest: ingest,
		log:    log,
		allowed: map[string]bool{
			".txt": true,
			".md":  true,
			".pdf": true,
		},
	}
}

// CreateDocumentRequest is the request body for registering a document.
type CreateDocumentRequest struct {
	FileName   string `json:"file_name" binding:"required"`
	StorageURL string `json:"storage_url" binding:"required"`
	Version    int    `json:"version"`
	IsActive   *bool  `json:"is_active"`
}

// CreateDocument handles POST /admin/documents.
func (h *AdminHandler) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Version == 0 {
		req.Version = 1
	}
	if req.Version < 1 {
		respondError(c, http.StatusBadRequest, "INVALID_VERSION", "version must be at least 1")
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	admin := auth.CurrentUser(c)
	document, err := h.store.CreateDocument(c.Request.Context(), store.DocumentCreate{
		FileName:   req.FileName,
		StorageURL: req.StorageURL,
		Version:    req.Version,
		IsActive:   active,
		UploadedBy: admin.ID,
	})
	if err != nil {
		respondStoreError(c, err, "Document could not be created")
		return
	}

	respondData(c, http.StatusCreated, document)
}

// UploadDocument handles POST /admin/documents/upload: stores the uploaded
// file and registers a document record pointing at it.
func (h *AdminHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE", "File exceeds the 10MB limit")
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !h.allowed[ext] {
		respondError(c, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "Only txt, md, and pdf files are accepted")
		return
	}

	version := 1
	if v := c.PostForm("version"); v != "" {
		version, err = strconv.Atoi(v)
		if err != nil || version < 1 {
			respondError(c, http.StatusBadRequest, "INVALID_VERSION", "version must be a positive integer")
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", err.Error())
		return
	}
	defer file.Close()

	fileID := uuid.New()
	storagePath, err := h.files.Upload(c.Request.Context(), fileID, fileHeader.Filename, file)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", err.Error())
		return
	}

	admin := auth.CurrentUser(c)
	document, err := h.store.CreateDocument(c.Request.Context(), store.DocumentCreate{
		FileName:   fileHeader.Filename,
		StorageURL: storagePath,
		Version:    version,
		IsActive:   true,
		UploadedBy: admin.ID,
	})
	if err != nil {
		respondStoreError(c, err, "Document could not be created")
		return
	}

	h.log.WithFields(logrus.Fields{
		"document_id": document.ID,
		"file_name":   document.FileName,
	}).Info("reference document uploaded")

	respondData(c, http.StatusCreated, document)
}

// IngestDocument handles POST /admin/documents/:id/ingest: loads the
// document's stored file and runs the ingestion pipeline over it.
func (h *AdminHandler) IngestDocument(c *gin.Context) {
	document, err := h.store.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Document not found")
		return
	}

	ext := strings.ToLower(filepath.Ext(document.FileName))
	if ext != ".txt" && ext != ".md" {
		respondError(c, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "Only plain-text documents can be ingested")
		return
	}

	reader, err := h.files.Download(c.Request.Context(), document.StorageURL)
	if err != nil {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", err.Error())
		return
	}
	defer reader.Close()

	text, err := io.ReadAll(reader)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "READ_FAILED", err.Error())
		return
	}

	count, err := h.ingest.Ingest(c.Request.Context(), document.ID, string(text))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INGESTION_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"document_id": document.ID,
		"chunk_count": count,
	})
}

// LawyerStatusRequest is the request body for a verification decision.
type LawyerStatusRequest struct {
	Status       models.VerificationStatus `json:"status" binding:"required"`
	ResetBalance *int                      `json:"reset_balance"`
}

// UpdateLawyerStatus handles PUT /admin/lawyers/:user_id/status.
func (h *AdminHandler) UpdateLawyerStatus(c *gin.Context) {
	var req LawyerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if !req.Status.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "status must be pending, approved, or rejected")
		return
	}
	if req.ResetBalance != nil && *req.ResetBalance < 0 {
		respondError(c, http.StatusBadRequest, "INVALID_BALANCE", "reset_balance must not be negative")
		return
	}

	profile, err := h.store.UpdateLawyerStatus(c.Request.Context(), c.Param("user_id"), req.Status, req.ResetBalance)
	if err != nil {
		respondStoreError(c, err, "Lawyer profile not found")
		return
	}

	respondData(c, http.StatusOK, profile)
}
