package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type workerFunc func(ctx context.Context) error

func (f workerFunc) Start(ctx context.Context) error {
	return f(ctx)
}

func TestRunOutboxWorker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("stops-on-cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := RunOutboxWorker(ctx, workerFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}), logger)
		require.NoError(t, err)
	})

	t.Run("worker-error", func(t *testing.T) {
		err := RunOutboxWorker(context.Background(), workerFunc(func(ctx context.Context) error {
			return errors.New("boom")
		}), logger)
		require.EqualError(t, err, "boom")
	})
}
