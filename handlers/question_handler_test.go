package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lawqna-backend/auth"
	"lawqna-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestion() models.Question {
	return models.Question{
		ID:        uuid.New(),
		UserID:    uuid.MustParse(testUserID),
		Title:     "전세 보증금을 돌려받지 못하고 있습니다",
		Body:      map[string]any{"text": "계약이 끝났는데 집주인이 보증금을 돌려주지 않습니다."},
		Category:  "lease",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Answers:   []models.Answer{},
	}
}

func TestCreateQuestionAttachesGeneratedAnswer(t *testing.T) {
	backend := &fakeBackend{question: sampleQuestion()}
	rag := &stubAnswerGenerator{answer: &models.AIAnswer{
		Content: "주택임대차보호법에 따라 보증금 반환을 청구할 수 있습니다.",
		Sources: []models.AnswerSource{{DocumentID: uuid.NewString(), ChunkIndex: 0, Content: "제3조"}},
		Model:   "gemini-2.0-flash",
	}}
	router := newQuestionRouter(t, backend, rag)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions", bearerToken(t, testUserID, auth.RoleUser), map[string]any{
		"title":    backend.question.Title,
		"body":     backend.question.Body,
		"category": "lease",
	}))

	require.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])

	data := envelope["data"].(map[string]any)
	aiAnswer := data["ai_answer"].(map[string]any)
	assert.Equal(t, rag.answer.Content, aiAnswer["content"])
	assert.Equal(t, "gemini-2.0-flash", aiAnswer["model"])
	assert.Len(t, aiAnswer["sources"], 1)

	// The generated answer is persisted on the question row, and the
	// retrieval query is the question title.
	require.NotNil(t, backend.patchedQuestion["ai_answer"])
	assert.Equal(t, backend.question.Title, rag.asked)
}

func TestCreateQuestionSurvivesGenerationFailure(t *testing.T) {
	backend := &fakeBackend{question: sampleQuestion()}
	rag := &stubAnswerGenerator{err: errors.New("model overloaded")}
	router := newQuestionRouter(t, backend, rag)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions", bearerToken(t, testUserID, auth.RoleUser), map[string]any{
		"title":    backend.question.Title,
		"category": "lease",
	}))

	// Generation failure never fails question creation; the placeholder is
	// both returned and persisted.
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	aiAnswer := data["ai_answer"].(map[string]any)
	assert.Contains(t, aiAnswer["content"], "AI answer generation failed")
	assert.Empty(t, aiAnswer["sources"])
	assert.Contains(t, aiAnswer["error"], "model overloaded")

	persisted := backend.patchedQuestion["ai_answer"].(map[string]any)
	assert.Contains(t, persisted["content"], "AI answer generation failed")
}

func TestCreateQuestionValidation(t *testing.T) {
	backend := &fakeBackend{question: sampleQuestion()}
	router := newQuestionRouter(t, backend, &stubAnswerGenerator{answer: &models.AIAnswer{}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions", bearerToken(t, testUserID, auth.RoleUser), map[string]any{
		"title": "카테고리가 없는 질문",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestCreateQuestionRequiresToken(t *testing.T) {
	router := newQuestionRouter(t, &fakeBackend{question: sampleQuestion()}, &stubAnswerGenerator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions", "", map[string]any{
		"title":    "질문",
		"category": "lease",
	}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetQuestion(t *testing.T) {
	backend := &fakeBackend{question: sampleQuestion()}
	router := newQuestionRouter(t, backend, &stubAnswerGenerator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodGet, "/questions/"+backend.question.ID.String(), bearerToken(t, testUserID, auth.RoleUser), nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, backend.question.ID.String(), data["id"])
	assert.NotNil(t, data["answers"], "answers must be a list, never null")
}

func approvedProfileRows(balance int) string {
	return fmt.Sprintf(`[{"id":%q,"user_id":%q,"name":"김변호사","verification_status":"approved","balance":%d}]`,
		uuid.NewString(), testLawyerID, balance)
}

func answerRequestBody() map[string]any {
	return map[string]any{"content": "임대차 계약 종료 후 보증금 반환 소송을 제기할 수 있습니다."}
}

func TestCreateAnswerDeductsBalance(t *testing.T) {
	question := sampleQuestion()
	backend := &fakeBackend{
		question:    question,
		profileRows: approvedProfileRows(5000),
		deductRows:  approvedProfileRows(4000),
		answer: models.Answer{
			ID:         uuid.New(),
			QuestionID: question.ID,
			LawyerID:   uuid.MustParse(testLawyerID),
			Content:    "임대차 계약 종료 후 보증금 반환 소송을 제기할 수 있습니다.",
		},
	}
	router := newQuestionRouter(t, backend, &stubAnswerGenerator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions/"+question.ID.String()+"/answers",
		bearerToken(t, testLawyerID, auth.RoleLawyer), answerRequestBody()))

	require.Equal(t, http.StatusCreated, w.Code)

	// The deduction is conditional on the balance just read and subtracts
	// exactly the answer cost.
	assert.Equal(t, "eq.5000", backend.deductQuery.Get("balance"))
	assert.Equal(t, "eq."+testLawyerID, backend.deductQuery.Get("user_id"))
	assert.Equal(t, float64(4000), backend.deductBody["balance"])

	assert.Equal(t, question.ID.String(), backend.answerBody["question_id"])
	assert.Equal(t, testLawyerID, backend.answerBody["lawyer_id"])
}

func TestCreateAnswerWithoutProfile(t *testing.T) {
	backend := &fakeBackend{question: sampleQuestion(), profileRows: `[]`}
	router := newQuestionRouter(t, backend, &stubAnswerGenerator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions/"+backend.question.ID.String()+"/answers",
		bearerToken(t, testLawyerID, auth.RoleLawyer), answerRequestBody()))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "PROFILE_NOT_FOUND")
}

func TestCreateAnswerPendingLawyer(t *testing.T) {
	backend := &fakeBackend{
		question: sampleQuestion(),
		profileRows: fmt.Sprintf(`[{"id":%q,"user_id":%q,"name":"김변호사","verification_status":"pending","balance":5000}]`,
			uuid.NewString(), testLawyerID),
	}
	router := newQuestionRouter(t, backend, &stubAnswerGenerator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions/"+backend.question.ID.String()+"/answers",
		bearerToken(t, testLawyerID, auth.RoleLawyer), answerRequestBody()))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "LAWYER_NOT_APPROVED")
}

func TestCreateAnswerInsufficientBalance(t *testing.T) {
	backend := &fakeBackend{question: sampleQuestion(), profileRows: approvedProfileRows(500)}
	router := newQuestionRouter(t, backend, &stubAnswerGenerator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions/"+backend.question.ID.String()+"/answers",
		bearerToken(t, testLawyerID, auth.RoleLawyer), answerRequestBody()))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_BALANCE")
}

func TestCreateAnswerBalanceConflict(t *testing.T) {
	// The conditional update matches no rows when the balance moved between
	// the read and the write.
	backend := &fakeBackend{
		question:    sampleQuestion(),
		profileRows: approvedProfileRows(5000),
		deductRows:  `[]`,
	}
	router := newQuestionRouter(t, backend, &stubAnswerGenerator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions/"+backend.question.ID.String()+"/answers",
		bearerToken(t, testLawyerID, auth.RoleLawyer), answerRequestBody()))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "BALANCE_CONFLICT")
}

func TestCreateAnswerContentTooShort(t *testing.T) {
	backend := &fakeBackend{question: sampleQuestion(), profileRows: approvedProfileRows(5000)}
	router := newQuestionRouter(t, backend, &stubAnswerGenerator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions/"+backend.question.ID.String()+"/answers",
		bearerToken(t, testLawyerID, auth.RoleLawyer), map[string]any{"content": "short"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestCreateAnswerRejectsNonLawyer(t *testing.T) {
	backend := &fakeBackend{question: sampleQuestion(), profileRows: approvedProfileRows(5000)}
	router := newQuestionRouter(t, backend, &stubAnswerGenerator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/questions/"+backend.question.ID.String()+"/answers",
		bearerToken(t, testUserID, auth.RoleUser), answerRequestBody()))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "INSUFFICIENT_ROLE"))
}
