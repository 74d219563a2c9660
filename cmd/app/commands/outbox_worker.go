package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Worker is a long running background process stopped by cancelling its context.
type Worker interface {
	Start(ctx context.Context) error
}

// RunOutboxWorker drains the outbox until SIGINT/SIGTERM is received. Stock alerts queued
// by claims are emailed to the configured admins.
func RunOutboxWorker(ctx context.Context, worker Worker, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting outbox worker")

	if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("outbox worker stopped")
	return nil
}
