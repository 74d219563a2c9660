package dto

import (
	"time"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	codesUseCase "github.com/allisson/codepool/internal/codes/usecase"
)

// IssueCodeResponse describes a pooled code. It never contains the plaintext.
type IssueCodeResponse struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"plan_id"`
	Mask      string    `json:"mask"`
	CreatedAt time.Time `json:"created_at"`
}

// MapIssueResultToResponse converts an issue result to an API response.
func MapIssueResultToResponse(result *codesUseCase.IssueResult) IssueCodeResponse {
	return IssueCodeResponse{
		ID:        result.ID.String(),
		PlanID:    result.PlanID.String(),
		Mask:      result.Mask,
		CreatedAt: result.CreatedAt,
	}
}

// ClaimCodeResponse is returned to the buyer. SECURITY: Code is the plaintext and this is
// the only response that carries it.
type ClaimCodeResponse struct {
	Code         string    `json:"code"`
	Mask         string    `json:"mask"`
	PlanID       string    `json:"plan_id"`
	RedemptionID string    `json:"redemption_id"`
	ClaimedAt    time.Time `json:"claimed_at"`
	Delivery     string    `json:"delivery"`
}

// MapFulfillmentToResponse converts a fulfilled claim to an API response.
func MapFulfillmentToResponse(result *codesUseCase.FulfillmentResult) ClaimCodeResponse {
	return ClaimCodeResponse{
		Code:         result.Code,
		Mask:         result.Mask,
		PlanID:       result.PlanID.String(),
		RedemptionID: result.RedemptionID.String(),
		ClaimedAt:    result.ClaimedAt,
		Delivery:     result.Delivery,
	}
}

// DeletePlanResponse reports how many codes were removed with the plan.
type DeletePlanResponse struct {
	DeletedCount int `json:"deleted_count"`
}

// AvailabilityResponse reports the number of unclaimed codes of a plan.
type AvailabilityResponse struct {
	PlanID string `json:"plan_id"`
	Count  int    `json:"count"`
}

// PlanResponse represents a plan in API responses.
type PlanResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	PriceCents    int64     `json:"price_cents"`
	DataAllowance string    `json:"data_allowance"`
	DurationDays  int       `json:"duration_days"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListPlansResponse represents a paginated list of plans.
type ListPlansResponse struct {
	Data []PlanResponse `json:"data"`
}

// MapPlansToListResponse converts domain plans to a list response.
func MapPlansToListResponse(plans []*codesDomain.Plan) ListPlansResponse {
	data := make([]PlanResponse, 0, len(plans))
	for _, plan := range plans {
		data = append(data, PlanResponse{
			ID:            plan.ID.String(),
			Name:          plan.Name,
			Kind:          string(plan.Kind),
			PriceCents:    plan.PriceCents,
			DataAllowance: plan.DataAllowance,
			DurationDays:  plan.DurationDays,
			CreatedAt:     plan.CreatedAt,
		})
	}
	return ListPlansResponse{Data: data}
}

// CodeResponse describes a pooled code by its mask.
type CodeResponse struct {
	ID        string    `json:"id"`
	Mask      string    `json:"mask"`
	CreatedAt time.Time `json:"created_at"`
}

// ListCodesResponse represents a paginated list of masked codes.
type ListCodesResponse struct {
	Data []CodeResponse `json:"data"`
}

// MapCodesToListResponse converts code records to a list response. Ciphertext and hash
// are dropped.
func MapCodesToListResponse(records []*codesDomain.CodeRecord) ListCodesResponse {
	data := make([]CodeResponse, 0, len(records))
	for _, record := range records {
		data = append(data, CodeResponse{
			ID:        record.ID.String(),
			Mask:      record.SecretMask,
			CreatedAt: record.CreatedAt,
		})
	}
	return ListCodesResponse{Data: data}
}

// RedemptionResponse represents a ledger entry.
type RedemptionResponse struct {
	ID           string    `json:"id"`
	PlanID       string    `json:"plan_id"`
	CodeRecordID string    `json:"code_record_id"`
	Mask         string    `json:"mask"`
	PlanName     string    `json:"plan_name"`
	PlanKind     string    `json:"plan_kind"`
	PriceCents   int64     `json:"price_cents"`
	Customer     string    `json:"customer"`
	ClaimedAt    time.Time `json:"claimed_at"`
}

// ListRedemptionsResponse represents a paginated ledger page.
type ListRedemptionsResponse struct {
	Data []RedemptionResponse `json:"data"`
}

// MapRedemptionsToListResponse converts ledger entries to a list response.
func MapRedemptionsToListResponse(redemptions []*codesDomain.Redemption) ListRedemptionsResponse {
	data := make([]RedemptionResponse, 0, len(redemptions))
	for _, r := range redemptions {
		data = append(data, RedemptionResponse{
			ID:           r.ID.String(),
			PlanID:       r.PlanID.String(),
			CodeRecordID: r.CodeRecordID.String(),
			Mask:         r.SecretMask,
			PlanName:     r.PlanName,
			PlanKind:     string(r.PlanKind),
			PriceCents:   r.PriceCents,
			Customer:     r.Customer,
			ClaimedAt:    r.ClaimedAt,
		})
	}
	return ListRedemptionsResponse{Data: data}
}
