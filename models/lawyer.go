package models

import (
	"github.com/google/uuid"
)

// VerificationStatus represents a lawyer's verification state.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Valid reports whether s is one of the known verification states.
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}

// AnswerCost is the balance deducted per paid answer.
const AnswerCost = 1000

// LawyerProfile is a lawyer's verification record and credit balance.
// UserID is unique; status transitions happen only through admin action.
type LawyerProfile struct {
	ID                      uuid.UUID          `json:"id"`
	UserID                  uuid.UUID          `json:"user_id"`
	Name                    string             `json:"name"`
	VerificationStatus      VerificationStatus `json:"verification_status"`
	VerificationDocumentURL *string            `json:"verification_document_url,omitempty"`
	Balance                 int                `json:"balance"`
}
