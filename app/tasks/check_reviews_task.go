package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FirstTop/wb-reviews-agent/app/review"
)

type CheckReviewsTask struct {
	Task
	lifecycle *review.Lifecycle
}

func NewCheckReviewsTask(lifecycle *review.Lifecycle) *CheckReviewsTask {
	return &CheckReviewsTask{
		Task:      NewTask(TaskTypeCheckReviews),
		lifecycle: lifecycle,
	}
}

func (t *CheckReviewsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	processed, err := t.lifecycle.CheckNewReviews(ctx)
	if err != nil {
		return fmt.Errorf("failed to check new reviews: %w", err)
	}

	slog.Info("Task completed",
		"type", "CheckReviews",
		"duration", t.GetDuration(),
		"processed", processed)

	return nil
}
