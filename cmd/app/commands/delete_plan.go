package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	codesUseCase "github.com/allisson/codepool/internal/codes/usecase"
)

// RunDeletePlan removes a plan together with every unclaimed code in its pool. Ledger
// entries are kept.
func RunDeletePlan(
	ctx context.Context,
	plans codesUseCase.PlanUseCase,
	logger *slog.Logger,
	writer io.Writer,
	planID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := uuid.Parse(planID)
	if err != nil {
		return fmt.Errorf("invalid plan id: %w", err)
	}

	deleted, err := plans.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	logger.Info("plan deleted", slog.String("plan_id", id.String()), slog.Int("deleted_codes", deleted))

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"plan_id":       id.String(),
			"deleted_count": deleted,
		})
	}
	_, err = fmt.Fprintf(writer, "Deleted plan %s and %d unclaimed code(s)\n", id, deleted)
	return err
}
