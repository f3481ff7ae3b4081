package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FirstTop/wb-reviews-agent/app/database"
	"github.com/FirstTop/wb-reviews-agent/app/metrics"
)

// HandleAction applies one operator decision to a review. Every action
// is safe to invoke twice: a review already in a terminal state yields
// OutcomeAlreadyResolved without touching the store or the marketplace.
func (l *Lifecycle) HandleAction(ctx context.Context, action Action, reviewID, operatorID int64) (Outcome, error) {
	unlock := l.lockReview(reviewID)
	defer unlock()

	rev, err := l.reviewRepo.GetReview(reviewID)
	if err != nil {
		return 0, fmt.Errorf("failed to load review: %w", err)
	}
	if rev == nil {
		return 0, ErrReviewNotFound
	}

	if rev.Status.IsTerminal() {
		slog.Info("Action on resolved review ignored", "review_id", reviewID, "action", action.String(), "status", rev.Status)
		return OutcomeAlreadyResolved, nil
	}

	switch action {
	case ActionPublish:
		return l.actionPublish(ctx, rev)
	case ActionRegenerate:
		return l.actionRegenerate(ctx, rev)
	case ActionEdit:
		return l.actionEdit(ctx, rev, operatorID)
	case ActionSkip:
		return l.actionSkip(rev)
	}
	return 0, fmt.Errorf("unknown action %d", action)
}

func (l *Lifecycle) actionPublish(ctx context.Context, rev *database.Review) (Outcome, error) {
	reply, err := l.replyRepo.GetCurrentReply(rev.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load current reply: %w", err)
	}
	if reply == nil {
		return 0, ErrNoReply
	}

	publishCtx, cancel := context.WithTimeout(ctx, marketplaceTimeout)
	defer cancel()

	if err := l.publisher.PublishReply(publishCtx, rev.WBReviewID, reply.Text); err != nil {
		slog.Warn("Operator publish failed", "review_id", rev.ID, "error", err)
		metrics.PublishFailures.Inc()
		return 0, ErrPublishFailed
	}

	if err := l.reviewRepo.MarkReplyPublished(rev.ID, reply.ID, database.ActionTypePublish); err != nil {
		return 0, err
	}

	metrics.RepliesPublished.WithLabelValues("operator").Inc()
	slog.Info("Reply published by operator", "review_id", rev.ID)
	return OutcomePublished, nil
}

// actionRegenerate replaces the current draft text in place and sends a
// fresh card. Earlier unresolved notifications are marked superseded so
// their buttons stop representing the current draft; any action still
// taken from an old card resolves against the current draft anyway.
func (l *Lifecycle) actionRegenerate(ctx context.Context, rev *database.Review) (Outcome, error) {
	text, ok := l.generate(ctx, rev)
	if !ok {
		return 0, ErrGenerationFailed
	}

	reply, err := l.replyRepo.GetCurrentReply(rev.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load current reply: %w", err)
	}

	if reply != nil {
		if err := l.replyRepo.UpdateReplyText(reply.ID, text); err != nil {
			return 0, err
		}
	} else {
		if _, err := l.replyRepo.CreateReply(rev.ID, text, false); err != nil {
			return 0, err
		}
	}

	if _, err := l.notificationRepo.SupersedeUnresolved(rev.ID); err != nil {
		slog.Warn("Failed to supersede notifications", "review_id", rev.ID, "error", err)
	}

	l.sendCard(ctx, rev, text)
	slog.Info("Reply regenerated", "review_id", rev.ID)
	return OutcomeRegenerated, nil
}

// actionEdit opens an edit session: the operator's next free-text
// message becomes a manual draft for this review. The session expires
// on its own if no text arrives.
func (l *Lifecycle) actionEdit(ctx context.Context, rev *database.Review, operatorID int64) (Outcome, error) {
	if err := l.editSessions.SetAwaiting(ctx, operatorID, rev.ID); err != nil {
		return 0, fmt.Errorf("failed to open edit session: %w", err)
	}
	slog.Info("Edit session opened", "review_id", rev.ID, "operator_id", operatorID)
	return OutcomeAwaitingText, nil
}

func (l *Lifecycle) actionSkip(rev *database.Review) (Outcome, error) {
	if err := l.reviewRepo.MarkSkipped(rev.ID); err != nil {
		return 0, err
	}
	slog.Info("Review skipped", "review_id", rev.ID)
	return OutcomeSkipped, nil
}

// HandleManualText consumes the operator's free-text message if an edit
// session is open. The text becomes a new manual draft and a fresh card
// is sent. Returns false when no session was open for this operator.
func (l *Lifecycle) HandleManualText(ctx context.Context, operatorID int64, text string) (bool, error) {
	reviewID, ok, err := l.editSessions.Pop(ctx, operatorID)
	if err != nil {
		return false, fmt.Errorf("failed to check edit session: %w", err)
	}
	if !ok {
		return false, nil
	}

	unlock := l.lockReview(reviewID)
	defer unlock()

	rev, err := l.reviewRepo.GetReview(reviewID)
	if err != nil {
		return true, fmt.Errorf("failed to load review: %w", err)
	}
	if rev == nil {
		return true, ErrReviewNotFound
	}
	if rev.Status.IsTerminal() {
		return true, nil
	}

	if _, err := l.replyRepo.CreateReply(rev.ID, text, true); err != nil {
		return true, fmt.Errorf("failed to store manual reply: %w", err)
	}

	if _, err := l.notificationRepo.SupersedeUnresolved(rev.ID); err != nil {
		slog.Warn("Failed to supersede notifications", "review_id", rev.ID, "error", err)
	}

	l.sendCard(ctx, rev, text)
	slog.Info("Manual reply stored", "review_id", rev.ID, "operator_id", operatorID)
	return true, nil
}
