// Package dto provides data transfer objects for the code pool HTTP API.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	codesUseCase "github.com/allisson/codepool/internal/codes/usecase"
	customValidation "github.com/allisson/codepool/internal/validation"
)

// PlanRequest describes a plan by its attributes.
type PlanRequest struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	PriceCents    int64  `json:"price_cents"`
	DataAllowance string `json:"data_allowance"`
	DurationDays  int    `json:"duration_days"`
}

// IssueCodeRequest adds one code to a pool. Exactly one of PlanID or Plan must be set.
type IssueCodeRequest struct {
	PlanID *string      `json:"plan_id,omitempty"`
	Plan   *PlanRequest `json:"plan,omitempty"`
	Code   string       `json:"code"`
}

// Validate checks the request shape. Plan attributes are validated again by the use case.
func (r *IssueCodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Code, validation.Required, customValidation.NotBlank),
		validation.Field(&r.PlanID,
			validation.When(r.Plan == nil, validation.Required.Error("plan_id or plan is required")),
			validation.When(r.Plan != nil, validation.Nil.Error("must not be set together with plan")),
			validation.By(validUUID),
		),
	)
}

// ToIssueInput converts the request into use case input. Call Validate first.
func (r *IssueCodeRequest) ToIssueInput() (codesUseCase.IssueInput, error) {
	input := codesUseCase.IssueInput{Code: r.Code}
	if r.PlanID != nil {
		planID, err := uuid.Parse(*r.PlanID)
		if err != nil {
			return input, customValidation.WrapValidationError(err)
		}
		input.PlanID = &planID
	}
	if r.Plan != nil {
		input.Plan = &codesDomain.PlanAttributes{
			Name:          r.Plan.Name,
			Kind:          codesDomain.PlanKind(r.Plan.Kind),
			PriceCents:    r.Plan.PriceCents,
			DataAllowance: r.Plan.DataAllowance,
			DurationDays:  r.Plan.DurationDays,
		}
	}
	return input, nil
}

// ClaimCodeRequest claims the oldest code of a plan.
type ClaimCodeRequest struct {
	CustomerEmail string `json:"customer_email"`
}

// Validate checks if the claim request is valid.
func (r *ClaimCodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CustomerEmail, validation.Length(0, 254), customValidation.Email),
	)
}

func validUUID(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	if _, err := uuid.Parse(*s); err != nil {
		return validation.NewError("validation_uuid", "must be a valid UUID")
	}
	return nil
}
