package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ ReplyRepository = (*ReplyRepositoryImpl)(nil)

type ReplyRepositoryImpl struct {
	db *DB
}

func NewReplyRepository(db *DB) *ReplyRepositoryImpl {
	return &ReplyRepositoryImpl{db: db}
}

func (r *ReplyRepositoryImpl) CreateReply(reviewID int64, text string, manualEdit bool) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO replies (review_id, text, status, is_manual_edit, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, reviewID, text, ReplyStatusDraft, manualEdit, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert reply: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted reply id: %w", err)
	}

	return id, nil
}

// GetCurrentReply returns the most recently created reply for a review.
// Operator actions always act on this one, never on older rows.
func (r *ReplyRepositoryImpl) GetCurrentReply(reviewID int64) (*Reply, error) {
	var rep Reply
	var publishedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, review_id, text, status, is_manual_edit, created_at, published_at
		FROM replies
		WHERE review_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, reviewID).Scan(
		&rep.ID, &rep.ReviewID, &rep.Text, &rep.Status, &rep.IsManualEdit,
		&rep.CreatedAt, &publishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current reply: %w", err)
	}

	if publishedAt.Valid {
		rep.PublishedAt = &publishedAt.Time
	}

	return &rep, nil
}

func (r *ReplyRepositoryImpl) ListReplies(reviewID int64) ([]Reply, error) {
	rows, err := r.db.Query(`
		SELECT id, review_id, text, status, is_manual_edit, created_at, published_at
		FROM replies
		WHERE review_id = ?
		ORDER BY created_at DESC, id DESC
	`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	var replies []Reply
	for rows.Next() {
		var rep Reply
		var publishedAt sql.NullTime
		err := rows.Scan(
			&rep.ID, &rep.ReviewID, &rep.Text, &rep.Status, &rep.IsManualEdit,
			&rep.CreatedAt, &publishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reply row: %w", err)
		}
		if publishedAt.Valid {
			rep.PublishedAt = &publishedAt.Time
		}
		replies = append(replies, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reply rows: %w", err)
	}

	return replies, nil
}

// UpdateReplyText replaces the text of an existing draft in place.
// Regeneration advances the same row instead of appending a new one.
func (r *ReplyRepositoryImpl) UpdateReplyText(id int64, text string) error {
	_, err := r.db.Exec(`
		UPDATE replies SET text = ?, created_at = ? WHERE id = ?
	`, text, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update reply text: %w", err)
	}
	return nil
}
