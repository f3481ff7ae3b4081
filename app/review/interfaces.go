package review

import (
	"context"
	"time"
)

// Source fetches marketplace reviews authored since a given instant.
type Source interface {
	FetchReviews(ctx context.Context, since time.Time) ([]RawReview, error)
}

// GenerationRequest is the input for one reply generation.
type GenerationRequest struct {
	Text   string
	Rating int
	Pros   string
	Cons   string
}

// Generator produces reply text for a review. An error or an empty
// string both mean "no reply available"; the lifecycle parks the review
// for operator attention in either case.
type Generator interface {
	GenerateReply(ctx context.Context, req GenerationRequest) (string, error)
}

// Publisher submits a reply to the marketplace. A nil error is the only
// success signal.
type Publisher interface {
	PublishReply(ctx context.Context, wbReviewID, text string) error
}

// Channel delivers a review card to a human operator and returns the
// transport message identifier.
type Channel interface {
	SendReviewCard(ctx context.Context, card Card) (string, error)
}

// EditSessions tracks which review an operator is about to type a
// manual reply for. Entries expire on their own.
type EditSessions interface {
	SetAwaiting(ctx context.Context, operatorID, reviewID int64) error
	Pop(ctx context.Context, operatorID int64) (int64, bool, error)
}
