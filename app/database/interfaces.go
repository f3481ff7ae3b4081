package database

import (
	"time"
)

type ReviewRepository interface {
	CreateReview(r NewReview) (int64, bool, error)
	GetReview(id int64) (*Review, error)
	GetReviewByWBID(wbReviewID string) (*Review, error)
	ListReviews(status ReviewStatus, limit, offset int) ([]Review, error)
	UpdateReviewStatus(id int64, status ReviewStatus) error
	GetStatusCounts() (map[ReviewStatus]int, error)
	GetReviewCount() (int, error)
	GetLatestReviewDate() (*time.Time, error)

	MarkReplyPublished(reviewID, replyID int64, actionType string) error
	MarkReplyApproved(reviewID, replyID int64) error
	MarkSkipped(reviewID int64) error
}

type ReplyRepository interface {
	CreateReply(reviewID int64, text string, manualEdit bool) (int64, error)
	GetCurrentReply(reviewID int64) (*Reply, error)
	ListReplies(reviewID int64) ([]Reply, error)
	UpdateReplyText(id int64, text string) error
}

type NotificationRepository interface {
	CreateNotification(reviewID int64, messageID string) (int64, error)
	GetCurrentNotification(reviewID int64) (*Notification, error)
	SupersedeUnresolved(reviewID int64) (int, error)
}
