package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/FirstTop/wb-reviews-agent/app/database"
	"github.com/FirstTop/wb-reviews-agent/app/metrics"
)

const (
	generationTimeout  = 60 * time.Second
	marketplaceTimeout = 30 * time.Second
	deliveryTimeout    = 30 * time.Second
)

// Lifecycle owns the review state machine: it ingests raw payloads,
// routes them by rating, drives generation and publishing, and handles
// operator decisions. All collaborators are injected once at startup.
type Lifecycle struct {
	reviewRepo       database.ReviewRepository
	replyRepo        database.ReplyRepository
	notificationRepo database.NotificationRepository
	source           Source
	generator        Generator
	publisher        Publisher
	channel          Channel
	editSessions     EditSessions
	lookback         time.Duration

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewLifecycle(reviewRepo database.ReviewRepository, replyRepo database.ReplyRepository,
	notificationRepo database.NotificationRepository, source Source, generator Generator,
	publisher Publisher, channel Channel, editSessions EditSessions, lookback time.Duration) *Lifecycle {
	return &Lifecycle{
		reviewRepo:       reviewRepo,
		replyRepo:        replyRepo,
		notificationRepo: notificationRepo,
		source:           source,
		generator:        generator,
		publisher:        publisher,
		channel:          channel,
		editSessions:     editSessions,
		lookback:         lookback,
		locks:            make(map[int64]*sync.Mutex),
	}
}

// lockReview serializes read-modify-write sequences on one review so a
// scheduler tick, a manual trigger and an operator callback cannot
// double-publish. Returns the unlock func.
func (l *Lifecycle) lockReview(id int64) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// CheckNewReviews fetches reviews authored after the high-water mark
// (the newest stored review date) and processes them. With an empty
// database the configured lookback window is used instead.
func (l *Lifecycle) CheckNewReviews(ctx context.Context) (int, error) {
	since := time.Now().UTC().Add(-l.lookback)

	latest, err := l.reviewRepo.GetLatestReviewDate()
	if err != nil {
		return 0, fmt.Errorf("failed to get high-water mark: %w", err)
	}
	if latest != nil {
		since = *latest
	}

	fetchCtx, cancel := context.WithTimeout(ctx, marketplaceTimeout)
	defer cancel()

	raws, err := l.source.FetchReviews(fetchCtx, since)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	if len(raws) == 0 {
		slog.Debug("No new reviews found", "since", since)
		return 0, nil
	}

	slog.Info("Fetched reviews", "count", len(raws), "since", since)

	return l.ProcessBatch(ctx, raws), nil
}

// ProcessBatch runs every payload through ingestion and routing.
// Failures are isolated per item: one broken payload never aborts its
// siblings.
func (l *Lifecycle) ProcessBatch(ctx context.Context, raws []RawReview) int {
	processed := 0
	for _, raw := range raws {
		if err := l.ProcessReview(ctx, raw); err != nil {
			slog.Error("Failed to process review", "wb_review_id", raw.WBReviewID, "error", err)
			continue
		}
		processed++
	}
	return processed
}

// ProcessReview validates and stores one payload, then routes it by
// rating. Re-ingestion of a known marketplace id is a silent no-op;
// this dedup guard is what makes overlapping fetch windows safe.
func (l *Lifecycle) ProcessReview(ctx context.Context, raw RawReview) error {
	if raw.WBReviewID == "" {
		return fmt.Errorf("payload has no review id")
	}
	if raw.Rating < 1 || raw.Rating > 5 {
		return fmt.Errorf("payload has invalid rating %d", raw.Rating)
	}

	id, created, err := l.reviewRepo.CreateReview(database.NewReview{
		WBReviewID:      raw.WBReviewID,
		ProductID:       raw.ProductID,
		NmID:            raw.NmID,
		SupplierArticle: raw.SupplierArticle,
		Rating:          raw.Rating,
		Text:            raw.Text,
		Pros:            raw.Pros,
		Cons:            raw.Cons,
		Author:          raw.Author,
		Date:            raw.Date,
	})
	if err != nil {
		return fmt.Errorf("failed to store review: %w", err)
	}

	if !created {
		slog.Debug("Review already processed, skipping", "wb_review_id", raw.WBReviewID)
		metrics.ReviewsDuplicate.Inc()
		return nil
	}

	metrics.ReviewsIngested.Inc()
	slog.Info("New review stored", "review_id", id, "wb_review_id", raw.WBReviewID, "rating", raw.Rating)

	unlock := l.lockReview(id)
	defer unlock()

	rev, err := l.reviewRepo.GetReview(id)
	if err != nil {
		return fmt.Errorf("failed to load stored review: %w", err)
	}

	if rev.Rating >= PositiveRatingThreshold {
		return l.handlePositive(ctx, rev)
	}
	return l.handleNegative(ctx, rev)
}

// handlePositive generates a reply and publishes it without human
// involvement. A publish failure keeps the generated text as approved
// and parks the review pending so it resurfaces for the operator.
func (l *Lifecycle) handlePositive(ctx context.Context, rev *database.Review) error {
	text, ok := l.generate(ctx, rev)
	if !ok {
		return l.parkPending(rev.ID)
	}

	replyID, err := l.replyRepo.CreateReply(rev.ID, text, false)
	if err != nil {
		return fmt.Errorf("failed to store reply: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, marketplaceTimeout)
	defer cancel()

	if err := l.publisher.PublishReply(publishCtx, rev.WBReviewID, text); err != nil {
		slog.Warn("Failed to publish reply", "review_id", rev.ID, "error", err)
		metrics.PublishFailures.Inc()
		return l.reviewRepo.MarkReplyApproved(rev.ID, replyID)
	}

	if err := l.reviewRepo.MarkReplyPublished(rev.ID, replyID, ""); err != nil {
		return err
	}

	metrics.RepliesPublished.WithLabelValues("auto").Inc()
	slog.Info("Reply published automatically", "review_id", rev.ID, "rating", rev.Rating)
	return nil
}

// handleNegative generates a draft and sends a card to the operator.
// The review is parked pending regardless of delivery outcome; a
// failed delivery only means it will not resurface on its own.
func (l *Lifecycle) handleNegative(ctx context.Context, rev *database.Review) error {
	text, ok := l.generate(ctx, rev)
	if !ok {
		return l.parkPending(rev.ID)
	}

	if _, err := l.replyRepo.CreateReply(rev.ID, text, false); err != nil {
		return fmt.Errorf("failed to store reply draft: %w", err)
	}

	if err := l.reviewRepo.UpdateReviewStatus(rev.ID, database.ReviewStatusPending); err != nil {
		return fmt.Errorf("failed to mark review pending: %w", err)
	}

	l.sendCard(ctx, rev, text)
	return nil
}

// generate invokes the generator and reports whether usable text came
// back. Failures are logged, never propagated.
func (l *Lifecycle) generate(ctx context.Context, rev *database.Review) (string, bool) {
	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	text, err := l.generator.GenerateReply(genCtx, GenerationRequest{
		Text:   rev.Text,
		Rating: rev.Rating,
		Pros:   rev.Pros,
		Cons:   rev.Cons,
	})
	if err != nil || text == "" {
		slog.Warn("Reply generation failed", "review_id", rev.ID, "error", err)
		metrics.GenerationFailures.Inc()
		return "", false
	}

	return text, true
}

func (l *Lifecycle) parkPending(reviewID int64) error {
	if err := l.reviewRepo.UpdateReviewStatus(reviewID, database.ReviewStatusPending); err != nil {
		return fmt.Errorf("failed to park review pending: %w", err)
	}
	return nil
}

// sendCard delivers an operator card and records the notification when
// the transport returns a message id. Delivery failure leaves the
// review pending with its draft only.
func (l *Lifecycle) sendCard(ctx context.Context, rev *database.Review, draftText string) {
	sendCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	messageID, err := l.channel.SendReviewCard(sendCtx, Card{
		ReviewID:        rev.ID,
		Rating:          rev.Rating,
		Author:          rev.Author,
		Date:            rev.Date,
		SupplierArticle: rev.SupplierArticle,
		NmID:            rev.NmID,
		Text:            rev.Text,
		Pros:            rev.Pros,
		Cons:            rev.Cons,
		DraftText:       draftText,
	})
	if err != nil {
		slog.Warn("Failed to deliver review card", "review_id", rev.ID, "error", err)
		return
	}

	if _, err := l.notificationRepo.CreateNotification(rev.ID, messageID); err != nil {
		slog.Error("Failed to store notification", "review_id", rev.ID, "error", err)
		return
	}

	metrics.CardsSent.Inc()
	slog.Info("Review card sent", "review_id", rev.ID, "message_id", messageID)
}
