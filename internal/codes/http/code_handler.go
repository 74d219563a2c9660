// Package http provides HTTP handlers for the code pool: issuing codes, claiming them and
// inspecting plans, pools and the claim ledger.
package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/codepool/internal/codes/http/dto"
	codesUseCase "github.com/allisson/codepool/internal/codes/usecase"
	"github.com/allisson/codepool/internal/httputil"
	customValidation "github.com/allisson/codepool/internal/validation"
)

// CodeHandler handles issuing and claiming codes.
type CodeHandler struct {
	issuerUseCase      codesUseCase.IssuerUseCase
	fulfillmentUseCase codesUseCase.FulfillmentUseCase
	logger             *slog.Logger
}

// NewCodeHandler creates a new code handler.
func NewCodeHandler(
	issuerUseCase codesUseCase.IssuerUseCase,
	fulfillmentUseCase codesUseCase.FulfillmentUseCase,
	logger *slog.Logger,
) *CodeHandler {
	return &CodeHandler{
		issuerUseCase:      issuerUseCase,
		fulfillmentUseCase: fulfillmentUseCase,
		logger:             logger,
	}
}

// IssueHandler adds a code to a plan pool.
// POST /v1/codes - Requires the admin role.
// Returns 201 Created with the record id and mask. The plaintext is never echoed.
func (h *CodeHandler) IssueHandler(c *gin.Context) {
	var req dto.IssueCodeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid request body"), h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := req.ToIssueInput()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result, err := h.issuerUseCase.Issue(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIssueResultToResponse(result))
}

// ClaimHandler hands the oldest code of a plan to the buyer.
// POST /v1/plans/:plan_id/claims - Requires the storefront role.
// Returns 200 OK with the plaintext code. A failed email delivery does not fail the claim.
func (h *CodeHandler) ClaimHandler(c *gin.Context) {
	planID, ok := parsePlanID(c, h.logger)
	if !ok {
		return
	}

	// The body is optional.
	var req dto.ClaimCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid request body"), h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.fulfillmentUseCase.Fulfill(c.Request.Context(), planID, req.CustomerEmail)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.MapFulfillmentToResponse(result))
}

func parsePlanID(c *gin.Context, logger *slog.Logger) (uuid.UUID, bool) {
	planID, err := uuid.Parse(c.Param("plan_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid plan_id parameter: must be a valid UUID"),
			logger,
		)
		return uuid.Nil, false
	}
	return planID, true
}
