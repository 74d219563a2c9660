package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/codepool/internal/codes/http/dto"
	codesUseCase "github.com/allisson/codepool/internal/codes/usecase"
	"github.com/allisson/codepool/internal/httputil"
)

// PlanHandler handles plan inspection and removal plus the claim ledger.
type PlanHandler struct {
	planUseCase   codesUseCase.PlanUseCase
	ledgerUseCase codesUseCase.LedgerUseCase
	logger        *slog.Logger
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(
	planUseCase codesUseCase.PlanUseCase,
	ledgerUseCase codesUseCase.LedgerUseCase,
	logger *slog.Logger,
) *PlanHandler {
	return &PlanHandler{
		planUseCase:   planUseCase,
		ledgerUseCase: ledgerUseCase,
		logger:        logger,
	}
}

// DeleteHandler removes a plan and every unclaimed code in it.
// DELETE /v1/plans/:plan_id - Requires the admin role.
func (h *PlanHandler) DeleteHandler(c *gin.Context) {
	planID, ok := parsePlanID(c, h.logger)
	if !ok {
		return
	}

	deleted, err := h.planUseCase.Delete(c.Request.Context(), planID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeletePlanResponse{DeletedCount: deleted})
}

// AvailabilityHandler reports how many codes remain in a plan.
// GET /v1/plans/:plan_id/availability - Requires the storefront role.
func (h *PlanHandler) AvailabilityHandler(c *gin.Context) {
	planID, ok := parsePlanID(c, h.logger)
	if !ok {
		return
	}

	count, err := h.planUseCase.Availability(c.Request.Context(), planID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.AvailabilityResponse{PlanID: planID.String(), Count: count})
}

// ListHandler lists plans in creation order.
// GET /v1/plans?offset=0&limit=50 - Requires the admin role.
func (h *PlanHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePage(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	plans, err := h.planUseCase.List(c.Request.Context(), page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPlansToListResponse(plans))
}

// ListCodesHandler lists the masks of unclaimed codes, oldest first.
// GET /v1/plans/:plan_id/codes?offset=0&limit=50 - Requires the admin role.
func (h *PlanHandler) ListCodesHandler(c *gin.Context) {
	planID, ok := parsePlanID(c, h.logger)
	if !ok {
		return
	}

	page, err := httputil.ParsePage(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	records, err := h.planUseCase.ListCodes(c.Request.Context(), planID, page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCodesToListResponse(records))
}

// ListRedemptionsHandler lists ledger entries, most recent first.
// GET /v1/redemptions?offset=0&limit=50 - Requires the admin role.
func (h *PlanHandler) ListRedemptionsHandler(c *gin.Context) {
	page, err := httputil.ParsePage(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	redemptions, err := h.ledgerUseCase.List(c.Request.Context(), page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRedemptionsToListResponse(redemptions))
}
