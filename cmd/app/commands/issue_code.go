package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	codesUseCase "github.com/allisson/codepool/internal/codes/usecase"
)

// IssueCodeOptions selects the target plan of RunIssueCode. PlanID wins over the
// attributes when both are given.
type IssueCodeOptions struct {
	PlanID        string
	Name          string
	Kind          string
	PriceCents    int64
	DataAllowance string
	DurationDays  int
	Format        string
}

// RunIssueCode reads one code from io.Reader and adds it to a plan pool. Only the mask
// is printed.
//
// Requirements: Database must be migrated and accessible.
func RunIssueCode(
	ctx context.Context,
	issuer codesUseCase.IssuerUseCase,
	logger *slog.Logger,
	io IOTuple,
	opts IssueCodeOptions,
) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	input, err := opts.issueInput()
	if err != nil {
		return err
	}

	code, err := readCode(io)
	if err != nil {
		return err
	}
	input.Code = code

	result, err := issuer.Issue(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to issue code: %w", err)
	}

	if opts.Format == "json" {
		if err := writeJSON(io.Writer, map[string]any{
			"id":         result.ID.String(),
			"plan_id":    result.PlanID.String(),
			"mask":       result.Mask,
			"created_at": result.CreatedAt,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Issued code %s\n", result.Mask)
		_, _ = fmt.Fprintf(io.Writer, "ID:      %s\n", result.ID)
		_, _ = fmt.Fprintf(io.Writer, "Plan ID: %s\n", result.PlanID)
	}

	logger.Info("code issued",
		slog.String("code_record_id", result.ID.String()),
		slog.String("plan_id", result.PlanID.String()),
		slog.String("mask", result.Mask),
	)
	return nil
}

func (o IssueCodeOptions) issueInput() (codesUseCase.IssueInput, error) {
	if o.PlanID != "" {
		planID, err := uuid.Parse(o.PlanID)
		if err != nil {
			return codesUseCase.IssueInput{}, fmt.Errorf("invalid plan id: %w", err)
		}
		return codesUseCase.IssueInput{PlanID: &planID}, nil
	}

	if o.Name == "" || o.Kind == "" {
		return codesUseCase.IssueInput{}, fmt.Errorf("--plan-id or both --name and --kind are required")
	}

	return codesUseCase.IssueInput{
		Plan: &codesDomain.PlanAttributes{
			Name:          o.Name,
			Kind:          codesDomain.PlanKind(o.Kind),
			PriceCents:    o.PriceCents,
			DataAllowance: o.DataAllowance,
			DurationDays:  o.DurationDays,
		},
	}, nil
}

// readCode returns the first line of r without its line terminator.
func readCode(io IOTuple) (string, error) {
	reader := bufio.NewReader(io.Reader)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read code from stdin: %w", err)
	}
	code := strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("no code provided on stdin")
	}
	return code, nil
}
