package store

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"lawqna-backend/models"
)

// GetLawyerProfile fetches the profile for a user id. A missing profile is
// not an error; it returns (nil, nil).
func (c *Client) GetLawyerProfile(ctx context.Context, userID string) (*models.LawyerProfile, error) {
	query := url.Values{
		"user_id": {"eq." + userID},
		"select":  {"*"},
	}
	rows, err := c.do(ctx, http.MethodGet, "/lawyer_profiles", query, nil, "")
	if err != nil {
		return nil, err
	}
	profiles, err := decodeRows[models.LawyerProfile](rows)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// UpsertLawyerProfile creates or replaces the profile keyed by user id. The
// verification status is always forced back to pending; approval only happens
// through admin action.
func (c *Client) UpsertLawyerProfile(ctx context.Context, userID, name, documentURL string) (*models.LawyerProfile, error) {
	query := url.Values{"on_conflict": {"user_id"}}
	body := map[string]any{
		"user_id":                   userID,
		"name":                      name,
		"verification_document_url": documentURL,
		"verification_status":       models.VerificationPending,
	}
	rows, err := c.do(ctx, http.MethodPost, "/lawyer_profiles", query, body, preferUpsert)
	if err != nil {
		return nil, err
	}
	profiles, err := decodeRows[models.LawyerProfile](rows)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrUnexpectedFormat
	}
	return &profiles[0], nil
}

// UpdateLawyerStatus sets the verification status and optionally resets the
// balance. Missing profiles yield ErrNotFound.
func (c *Client) UpdateLawyerStatus(ctx context.Context, userID string, status models.VerificationStatus, resetBalance *int) (*models.LawyerProfile, error) {
	query := url.Values{"user_id": {"eq." + userID}}
	body := map[string]any{"verification_status": status}
	if resetBalance != nil {
		body["balance"] = *resetBalance
	}
	rows, err := c.do(ctx, http.MethodPatch, "/lawyer_profiles", query, body, preferReturn)
	if err != nil {
		return nil, err
	}
	profiles, err := decodeRows[models.LawyerProfile](rows)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}
	return &profiles[0], nil
}

// DeductBalance performs a compare-and-swap balance decrement: the update is
// filtered on the balance the caller just read, so two concurrent deductions
// cannot both succeed against the same funds. Zero matched rows yields
// ErrBalanceConflict.
func (c *Client) DeductBalance(ctx context.Context, userID string, expectedBalance, cost int) (*models.LawyerProfile, error) {
	query := url.Values{
		"user_id": {"eq." + userID},
		"balance": {"eq." + strconv.Itoa(expectedBalance)},
	}
	body := map[string]any{"balance": expectedBalance - cost}
	rows, err := c.do(ctx, http.MethodPatch, "/lawyer_profiles", query, body, preferReturn)
	if err != nil {
		return nil, err
	}
	profiles, err := decodeRows[models.LawyerProfile](rows)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrBalanceConflict
	}
	return &profiles[0], nil
}
