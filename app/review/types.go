package review

import (
	"errors"
	"time"
)

// PositiveRatingThreshold splits reviews between the auto-publish path
// and the operator queue. Ratings at or above it are answered
// automatically.
const PositiveRatingThreshold = 4

// RawReview carries the canonical fields of one marketplace payload
// before it is stored.
type RawReview struct {
	WBReviewID      string
	ProductID       string
	NmID            string
	SupplierArticle string
	Rating          int
	Text            string
	Pros            string
	Cons            string
	Author          string
	Date            *time.Time
}

// Card is the operator-facing snapshot of a review and its current
// draft, rendered by the channel implementation.
type Card struct {
	ReviewID        int64
	Rating          int
	Author          string
	Date            *time.Time
	SupplierArticle string
	NmID            string
	Text            string
	Pros            string
	Cons            string
	DraftText       string
}

// Action is the closed set of operator decisions. Adding a value
// without extending the dispatcher switch is a compile-time smell, not
// a silent runtime miss.
type Action int

const (
	ActionPublish Action = iota
	ActionRegenerate
	ActionEdit
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionPublish:
		return "publish"
	case ActionRegenerate:
		return "regenerate"
	case ActionEdit:
		return "edit"
	case ActionSkip:
		return "skip"
	}
	return "unknown"
}

// Outcome reports what an operator action did, for presentation by the
// channel.
type Outcome int

const (
	OutcomePublished Outcome = iota
	OutcomeRegenerated
	OutcomeSkipped
	OutcomeAlreadyResolved
	OutcomeAwaitingText
	OutcomeManualSaved
)

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrNoReply          = errors.New("no reply draft for review")
	ErrGenerationFailed = errors.New("reply generation failed")
	ErrPublishFailed    = errors.New("reply publish failed")
)
