package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"lawqna-backend/auth"
	"lawqna-backend/models"
	"lawqna-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

// fakeBackend emulates the hosted table store's REST interface for handler
// tests, capturing writes so assertions can check what actually went over
// the wire.
type fakeBackend struct {
	question models.Question
	answer   models.Answer

	profileRows  string // GET /lawyer_profiles response
	deductRows   string // PATCH /lawyer_profiles response
	documentRows string // GET /documents response

	patchedQuestion map[string]any // last PATCH /questions body
	deductQuery     url.Values     // last PATCH /lawyer_profiles query
	deductBody      map[string]any
	answerBody      map[string]any // last POST /answers body
	upsertBody      map[string]any // last POST /lawyer_profiles body
}

func (f *fakeBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/questions":
			w.WriteHeader(http.StatusCreated)
			writeRows(w, f.question)
		case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/questions":
			f.patchedQuestion = decodeBody(r)
			writeRows(w, f.question)
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/questions":
			writeRows(w, f.question)
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/lawyer_profiles":
			fmt.Fprint(w, f.profileRows)
		case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/lawyer_profiles":
			f.deductQuery = r.URL.Query()
			f.deductBody = decodeBody(r)
			fmt.Fprint(w, f.deductRows)
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/lawyer_profiles":
			f.upsertBody = decodeBody(r)
			w.WriteHeader(http.StatusCreated)
			writeRows(w, models.LawyerProfile{
				ID:                 uuid.New(),
				UserID:             uuid.MustParse(testLawyerID),
				Name:               fmt.Sprint(f.upsertBody["name"]),
				VerificationStatus: models.VerificationPending,
			})
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/answers":
			f.answerBody = decodeBody(r)
			w.WriteHeader(http.StatusCreated)
			writeRows(w, f.answer)
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/documents":
			fmt.Fprint(w, f.documentRows)
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/documents":
			var payload store.DocumentCreate
			body := decodeBody(r)
			raw, _ := json.Marshal(body)
			_ = json.Unmarshal(raw, &payload)
			w.WriteHeader(http.StatusCreated)
			writeRows(w, models.Document{
				ID:         uuid.New(),
				FileName:   payload.FileName,
				StorageURL: payload.StorageURL,
				Version:    payload.Version,
				IsActive:   payload.IsActive,
				UploadedBy: uuid.MustParse(testAdminID),
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"no route"}`)
		}
	}
}

func writeRows(w http.ResponseWriter, rows ...any) {
	_ = json.NewEncoder(w).Encode(rows)
}

func decodeBody(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

var (
	testUserID   = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	testLawyerID = "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	testAdminID  = "9b2d7c1e-3f4a-4b5c-8d6e-7f8091a2b3c4"
)

func newStoreClient(t *testing.T, backend *fakeBackend) *store.Client {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return store.NewClient(server.URL, "service-key", 5*time.Second)
}

func bearerToken(t *testing.T, sub string, role auth.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func jsonRequest(method, target, authorization string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

// stubAnswerGenerator is a canned retrieval pipeline for handler tests.
type stubAnswerGenerator struct {
	answer *models.AIAnswer
	err    error
	asked  string
}

func (s *stubAnswerGenerator) Answer(_ context.Context, question string) (*models.AIAnswer, error) {
	s.asked = question
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func newQuestionRouter(t *testing.T, backend *fakeBackend, rag AnswerGenerator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier := auth.NewVerifier(testSecret)
	h := NewQuestionHandler(newStoreClient(t, backend), rag, testLogger())

	r := gin.New()
	anyRole := auth.RequireRole(verifier, auth.RoleUser, auth.RoleLawyer, auth.RoleAdmin)
	r.POST("/questions", anyRole, h.CreateQuestion)
	r.GET("/questions/:id", anyRole, h.GetQuestion)
	r.POST("/questions/:id/answers", auth.RequireRole(verifier, auth.RoleLawyer), h.CreateAnswer)
	return r
}
