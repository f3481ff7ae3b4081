package database

import (
	"testing"
	"time"
)

func TestGetCurrentReplyOrdering(t *testing.T) {
	db := newTestDB(t)
	reviewRepo := NewReviewRepository(db)
	replyRepo := NewReplyRepository(db)

	reviewID, _, err := reviewRepo.CreateReview(NewReview{WBReviewID: "wb-replies", Rating: 2})
	if err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}

	if _, err := replyRepo.CreateReply(reviewID, "первый черновик", false); err != nil {
		t.Fatalf("CreateReply failed: %v", err)
	}
	manualID, err := replyRepo.CreateReply(reviewID, "ручная правка", true)
	if err != nil {
		t.Fatalf("CreateReply failed: %v", err)
	}

	current, err := replyRepo.GetCurrentReply(reviewID)
	if err != nil {
		t.Fatalf("GetCurrentReply failed: %v", err)
	}
	if current == nil {
		t.Fatal("Expected current reply, got nil")
	}
	if current.ID != manualID {
		t.Errorf("Expected current reply %d, got %d", manualID, current.ID)
	}
	if !current.IsManualEdit {
		t.Error("Expected current reply to be the manual edit")
	}

	replies, err := replyRepo.ListReplies(reviewID)
	if err != nil {
		t.Fatalf("ListReplies failed: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("Expected 2 replies, got %d", len(replies))
	}
	if replies[0].ID != manualID {
		t.Errorf("Expected newest reply first, got %d", replies[0].ID)
	}
}

func TestUpdateReplyTextKeepsCurrent(t *testing.T) {
	db := newTestDB(t)
	reviewRepo := NewReviewRepository(db)
	replyRepo := NewReplyRepository(db)

	reviewID, _, err := reviewRepo.CreateReview(NewReview{WBReviewID: "wb-regen", Rating: 3})
	if err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}

	replyID, err := replyRepo.CreateReply(reviewID, "старый текст", false)
	if err != nil {
		t.Fatalf("CreateReply failed: %v", err)
	}

	before, _ := replyRepo.GetCurrentReply(reviewID)

	time.Sleep(5 * time.Millisecond)
	if err := replyRepo.UpdateReplyText(replyID, "новый текст"); err != nil {
		t.Fatalf("UpdateReplyText failed: %v", err)
	}

	current, err := replyRepo.GetCurrentReply(reviewID)
	if err != nil {
		t.Fatalf("GetCurrentReply failed: %v", err)
	}
	if current.ID != replyID {
		t.Errorf("Expected regeneration to keep row %d, got %d", replyID, current.ID)
	}
	if current.Text != "новый текст" {
		t.Errorf("Expected updated text, got %q", current.Text)
	}
	if !current.CreatedAt.After(before.CreatedAt) {
		t.Error("Expected regeneration to advance created_at")
	}
}

func TestGetCurrentReplyEmpty(t *testing.T) {
	db := newTestDB(t)
	reviewRepo := NewReviewRepository(db)
	replyRepo := NewReplyRepository(db)

	reviewID, _, err := reviewRepo.CreateReview(NewReview{WBReviewID: "wb-noreply", Rating: 2})
	if err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}

	current, err := replyRepo.GetCurrentReply(reviewID)
	if err != nil {
		t.Fatalf("GetCurrentReply failed: %v", err)
	}
	if current != nil {
		t.Errorf("Expected nil for review without replies, got %+v", current)
	}
}
