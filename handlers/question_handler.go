package handlers

import (
	"context"
	"errors"
	"net/http"

	"lawqna-backend/auth"
	"lawqna-backend/models"
	"lawqna-backend/service"
	"lawqna-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AnswerGenerator is the retrieval-answer pipeline as seen by the question
// handler.
type AnswerGenerator interface {
	Answer(ctx context.Context, question string) (*models.AIAnswer, error)
}

// QuestionHandler handles HTTP requests for questions and lawyer answers.
type QuestionHandler struct {
	store *store.Client
	rag   AnswerGenerator
	log   *logrus.Logger
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(storeClient *store.Client, rag AnswerGenerator, log *logrus.Logger) *QuestionHandler {
	return &QuestionHandler{
		store: storeClient,
		rag:   rag,
		log:   log,
	}
}

// CreateQuestionRequest is the request body for creating a question.
type CreateQuestionRequest struct {
	Title    string         `json:"title" binding:"required"`
	Body     map[string]any `json:"body"`
	Category string         `json:"category" binding:"required"`
}

// CreateQuestion handles POST /questions. The question row is created first;
// AI answer generation is best effort and a failure is recorded as a
// placeholder rather than failing the request.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user := auth.CurrentUser(c)
	body := req.Body
	if body == nil {
		body = map[string]any{}
	}

	created, err := h.store.CreateQuestion(c.Request.Context(), store.QuestionCreate{
		Title:    req.Title,
		Body:     body,
		Category: req.Category,
		UserID:   user.ID,
	})
	if err != nil {
		respondStoreError(c, err, "Question could not be created")
		return
	}

	questionID := created.ID.String()

	aiAnswer, err := h.rag.Answer(c.Request.Context(), req.Title)
	if err != nil {
		h.log.WithError(err).WithField("question_id", questionID).Warn("AI answer generation failed")
		aiAnswer = service.FallbackAnswer(err)
	}

	if err := h.store.UpdateQuestionAIAnswer(c.Request.Context(), questionID, aiAnswer); err != nil {
		h.log.WithError(err).WithField("question_id", questionID).Error("failed to persist AI answer")
	}

	question, err := h.store.GetQuestion(c.Request.Context(), questionID)
	if err != nil {
		// The row exists; fall back to the created record rather than
		// failing a successful creation.
		question = created
		question.Answers = []models.Answer{}
	}
	question.AIAnswer = aiAnswer

	respondData(c, http.StatusCreated, question)
}

// GetQuestion handles GET /questions/:id.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.store.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Question not found")
		return
	}
	respondData(c, http.StatusOK, question)
}

// CreateAnswerRequest is the request body for a paid lawyer answer.
type CreateAnswerRequest struct {
	Content string `json:"content" binding:"required,min=10"`
}

// CreateAnswer handles POST /questions/:id/answers. Requires an approved
// lawyer profile and a balance of at least models.AnswerCost; the deduction
// is a conditional update so concurrent submissions cannot overdraw.
func (h *QuestionHandler) CreateAnswer(c *gin.Context) {
	var req CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user := auth.CurrentUser(c)

	profile, err := h.store.GetLawyerProfile(c.Request.Context(), user.ID)
	if err != nil {
		respondStoreError(c, err, "Lawyer profile not found")
		return
	}
	if profile == nil {
		respondError(c, http.StatusForbidden, "PROFILE_NOT_FOUND", "Lawyer profile not found")
		return
	}
	if profile.VerificationStatus != models.VerificationApproved {
		respondError(c, http.StatusForbidden, "LAWYER_NOT_APPROVED", "Lawyer is not approved")
		return
	}
	if profile.Balance < models.AnswerCost {
		respondError(c, http.StatusPaymentRequired, "INSUFFICIENT_BALANCE", "Insufficient balance (1000 required)")
		return
	}

	if _, err := h.store.DeductBalance(c.Request.Context(), user.ID, profile.Balance, models.AnswerCost); err != nil {
		if errors.Is(err, store.ErrBalanceConflict) {
			respondError(c, http.StatusPaymentRequired, "BALANCE_CONFLICT", "Balance changed concurrently, please retry")
			return
		}
		respondStoreError(c, err, "Lawyer profile not found")
		return
	}

	answer, err := h.store.CreateAnswer(c.Request.Context(), c.Param("id"), user.ID, req.Content)
	if err != nil {
		respondStoreError(c, err, "Question not found")
		return
	}

	respondData(c, http.StatusCreated, answer)
}
