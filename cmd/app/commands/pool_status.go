package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	codesUseCase "github.com/allisson/codepool/internal/codes/usecase"
)

// poolStatusPageSize is the page size used to walk every plan.
const poolStatusPageSize = 100

type poolStatus struct {
	PlanID    string `json:"plan_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Available int    `json:"available"`
}

// RunPoolStatus prints the number of available codes of one plan, or of every plan when
// planID is empty.
func RunPoolStatus(
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

	var targets []*codesDomain.Plan
	if planID != "" {
		id, err := uuid.Parse(planID)
		if err != nil {
			return fmt.Errorf("invalid plan id: %w", err)
		}
		plan, err := plans.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get plan: %w", err)
		}
		targets = append(targets, plan)
	} else {
		for offset := 0; ; offset += poolStatusPageSize {
			page, err := plans.List(ctx, offset, poolStatusPageSize)
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}
			targets = append(targets, page...)
			if len(page) < poolStatusPageSize {
				break
			}
		}
	}

	statuses := make([]poolStatus, 0, len(targets))
	for _, plan := range targets {
		count, err := plans.Availability(ctx, plan.ID)
		if err != nil {
			return fmt.Errorf("failed to count codes of plan %s: %w", plan.ID, err)
		}
		statuses = append(statuses, poolStatus{
			PlanID:    plan.ID.String(),
			Name:      plan.Name,
			Kind:      string(plan.Kind),
			Available: count,
		})
	}

	logger.Debug("pool status collected", slog.Int("plans", len(statuses)))

	if format == "json" {
		return writeJSON(writer, statuses)
	}

	if len(statuses) == 0 {
		_, err := fmt.Fprintln(writer, "No plans found")
		return err
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PLAN ID\tNAME\tKIND\tAVAILABLE")
	for _, s := range statuses {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.PlanID, s.Name, s.Kind, s.Available)
	}
	return tw.Flush()
}
