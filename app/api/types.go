package api

import (
	"time"

	"github.com/FirstTop/wb-reviews-agent/app/database"
	"github.com/FirstTop/wb-reviews-agent/app/review"
)

type Handler struct {
	reviewRepo database.ReviewRepository
	replyRepo  database.ReplyRepository
	lifecycle  *review.Lifecycle
}

type reviewResponse struct {
	ID              int64      `json:"id"`
	WBReviewID      string     `json:"wb_review_id"`
	ProductID       string     `json:"product_id,omitempty"`
	NmID            string     `json:"nm_id,omitempty"`
	SupplierArticle string     `json:"supplier_article,omitempty"`
	Rating          int        `json:"rating"`
	Text            string     `json:"text,omitempty"`
	Pros            string     `json:"pros,omitempty"`
	Cons            string     `json:"cons,omitempty"`
	Author          string     `json:"author,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

type replyResponse struct {
	ID           int64      `json:"id"`
	Text         string     `json:"text"`
	Status       string     `json:"status"`
	IsManualEdit bool       `json:"is_manual_edit"`
	CreatedAt    time.Time  `json:"created_at"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

type reviewDetailResponse struct {
	reviewResponse
	Replies []replyResponse `json:"replies"`
}

func toReviewResponse(rev database.Review) reviewResponse {
	return reviewResponse{
		ID:              rev.ID,
		WBReviewID:      rev.WBReviewID,
		ProductID:       rev.ProductID,
		NmID:            rev.NmID,
		SupplierArticle: rev.SupplierArticle,
		Rating:          rev.Rating,
		Text:            rev.Text,
		Pros:            rev.Pros,
		Cons:            rev.Cons,
		Author:          rev.Author,
		Date:            rev.Date,
		Status:          string(rev.Status),
		CreatedAt:       rev.CreatedAt,
	}
}

func toReplyResponse(rep database.Reply) replyResponse {
	return replyResponse{
		ID:           rep.ID,
		Text:         rep.Text,
		Status:       string(rep.Status),
		IsManualEdit: rep.IsManualEdit,
		CreatedAt:    rep.CreatedAt,
		PublishedAt:  rep.PublishedAt,
	}
}
