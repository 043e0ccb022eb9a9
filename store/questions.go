package store

import (
	"context"
	"net/http"
	"net/url"

	"lawqna-backend/models"
)

// QuestionCreate is the payload for inserting a question row.
type QuestionCreate struct {
	Title    string         `json:"title"`
	Body     map[string]any `json:"body"`
	Category string         `json:"category"`
	UserID   string         `json:"user_id"`
}

// CreateQuestion inserts a question and returns the created row.
func (c *Client) CreateQuestion(ctx context.Context, payload QuestionCreate) (*models.Question, error) {
	rows, err := c.do(ctx, http.MethodPost, "/questions", nil, payload, preferReturn)
	if err != nil {
		return nil, err
	}
	questions, err := decodeRows[models.Question](rows)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrUnexpectedFormat
	}
	return &questions[0], nil
}

// GetQuestion fetches a question together with its nested answers in one
// call. Missing questions yield ErrNotFound; Answers is never nil.
func (c *Client) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	query := url.Values{
		"id":     {"eq." + id},
		"select": {"*,answers(*)"},
	}
	rows, err := c.do(ctx, http.MethodGet, "/questions", query, nil, "")
	if err != nil {
		return nil, err
	}
	questions, err := decodeRows[models.Question](rows)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNotFound
	}
	question := questions[0]
	if question.Answers == nil {
		question.Answers = []models.Answer{}
	}
	return &question, nil
}

// UpdateQuestionAIAnswer writes the generated (or placeholder) AI answer onto
// an existing question row.
func (c *Client) UpdateQuestionAIAnswer(ctx context.Context, id string, answer *models.AIAnswer) error {
	query := url.Values{"id": {"eq." + id}}
	body := map[string]any{"ai_answer": answer}
	_, err := c.do(ctx, http.MethodPatch, "/questions", query, body, preferReturn)
	return err
}

// CreateAnswer inserts a lawyer answer for a question.
func (c *Client) CreateAnswer(ctx context.Context, questionID, lawyerID, content string) (*models.Answer, error) {
	body := map[string]any{
		"question_id": questionID,
		"lawyer_id":   lawyerID,
		"content":     content,
	}
	rows, err := c.do(ctx, http.MethodPost, "/answers", nil, body, preferReturn)
	if err != nil {
		return nil, err
	}
	answers, err := decodeRows[models.Answer](rows)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, ErrUnexpectedFormat
	}
	return &answers[0], nil
}
