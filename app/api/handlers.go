package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FirstTop/wb-reviews-agent/app/cfg"
	"github.com/FirstTop/wb-reviews-agent/app/database"
	"github.com/FirstTop/wb-reviews-agent/app/review"
)

func NewHandler(reviewRepo database.ReviewRepository, replyRepo database.ReplyRepository,
	lifecycle *review.Lifecycle) *Handler {
	return &Handler{
		reviewRepo: reviewRepo,
		replyRepo:  replyRepo,
		lifecycle:  lifecycle,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.Get().Version,
	}

	if count, err := h.reviewRepo.GetReviewCount(); err == nil {
		health["reviews"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	counts, err := h.reviewRepo.GetStatusCounts()
	if err != nil {
		slog.Error("Database error", "operation", "get_status_counts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total := 0
	byStatus := make(map[string]int, len(counts))
	for status, count := range counts {
		byStatus[string(status)] = count
		total += count
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"by_status": byStatus,
	})
}

func (h *Handler) APIListReviews(c *gin.Context) {
	status := database.ReviewStatus(c.Query("status"))

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	reviews, err := h.reviewRepo.ListReviews(status, limit, offset)
	if err != nil {
		slog.Error("Database error", "operation", "list_reviews", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]reviewResponse, 0, len(reviews))
	for _, rev := range reviews {
		out = append(out, toReviewResponse(rev))
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": out,
		"total":   len(out),
	})
}

func (h *Handler) APIGetReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	rev, err := h.reviewRepo.GetReview(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_review", "review_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if rev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	replies, err := h.replyRepo.ListReplies(id)
	if err != nil {
		slog.Error("Database error", "operation", "list_replies", "review_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	detail := reviewDetailResponse{
		reviewResponse: toReviewResponse(*rev),
		Replies:        make([]replyResponse, 0, len(replies)),
	}
	for _, rep := range replies {
		detail.Replies = append(detail.Replies, toReplyResponse(rep))
	}

	c.JSON(http.StatusOK, detail)
}

// APICheckReviews triggers one synchronous fetch-and-process pass and
// reports how many reviews went through.
func (h *Handler) APICheckReviews(c *gin.Context) {
	processed, err := h.lifecycle.CheckNewReviews(c.Request.Context())
	if err != nil {
		slog.Error("Manual review check failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch reviews from marketplace"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"processed": processed})
}
