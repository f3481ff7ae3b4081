package database

import (
	"time"
)

type ReviewStatus string

const (
	ReviewStatusNew       ReviewStatus = "new"
	ReviewStatusPending   ReviewStatus = "pending"
	ReviewStatusSkipped   ReviewStatus = "skipped"
	ReviewStatusPublished ReviewStatus = "published"
)

// IsTerminal reports whether no further automated transition applies.
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewStatusPublished || s == ReviewStatusSkipped
}

type ReplyStatus string

const (
	ReplyStatusDraft     ReplyStatus = "draft"
	ReplyStatusApproved  ReplyStatus = "approved"
	ReplyStatusPublished ReplyStatus = "published"
)

const (
	NotificationStatusSent       = "sent"
	NotificationStatusCompleted  = "completed"
	NotificationStatusSuperseded = "superseded"
)

const (
	ActionTypePublish    = "publish"
	ActionTypeRegenerate = "regenerate"
	ActionTypeSkip       = "skip"
)

// Review is one ingested marketplace review. WBReviewID is the
// marketplace's own identifier and is unique across all rows.
type Review struct {
	ID              int64
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
	Status          ReviewStatus
	CreatedAt       time.Time
}

// Reply is one generated or manually edited candidate answer.
// The current reply for a review is the most recently created one.
type Reply struct {
	ID           int64
	ReviewID     int64
	Text         string
	Status       ReplyStatus
	IsManualEdit bool
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

// Notification records one operator card sent to Telegram for a review.
// action_taken_at is write-once: a resolved notification is never
// overwritten by a later callback.
type Notification struct {
	ID            int64
	ReviewID      int64
	MessageID     string
	Status        string
	ActionType    string
	CreatedAt     time.Time
	ActionTakenAt *time.Time
}

// NewReview carries the canonical fields of a parsed marketplace payload.
type NewReview struct {
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
