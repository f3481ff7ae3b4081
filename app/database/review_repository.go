package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ ReviewRepository = (*ReviewRepositoryImpl)(nil)

type ReviewRepositoryImpl struct {
	db *DB
}

func NewReviewRepository(db *DB) *ReviewRepositoryImpl {
	return &ReviewRepositoryImpl{db: db}
}

// CreateReview inserts a review unless one with the same marketplace id
// already exists. The second return value reports whether a row was
// actually created; re-ingestion of a known review is a silent no-op.
func (r *ReviewRepositoryImpl) CreateReview(nr NewReview) (int64, bool, error) {
	res, err := r.db.Exec(`
		INSERT INTO reviews (wb_review_id, product_id, nm_id, supplier_article,
		                     rating, text, pros, cons, author, date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (wb_review_id) DO NOTHING
	`, nr.WBReviewID, nr.ProductID, nr.NmID, nr.SupplierArticle,
		nr.Rating, nr.Text, nr.Pros, nr.Cons, nr.Author, nullableTime(nr.Date),
		ReviewStatusNew, time.Now().UTC())
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert review: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		existing, err := r.GetReviewByWBID(nr.WBReviewID)
		if err != nil {
			return 0, false, err
		}
		if existing == nil {
			return 0, false, fmt.Errorf("review %s neither inserted nor found", nr.WBReviewID)
		}
		return existing.ID, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get inserted review id: %w", err)
	}

	return id, true, nil
}

func (r *ReviewRepositoryImpl) GetReview(id int64) (*Review, error) {
	return r.getReviewWhere("id = ?", id)
}

func (r *ReviewRepositoryImpl) GetReviewByWBID(wbReviewID string) (*Review, error) {
	return r.getReviewWhere("wb_review_id = ?", wbReviewID)
}

func (r *ReviewRepositoryImpl) getReviewWhere(cond string, arg interface{}) (*Review, error) {
	var rev Review
	var date sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, wb_review_id, product_id, nm_id, supplier_article,
		       rating, text, pros, cons, author, date, status, created_at
		FROM reviews
		WHERE `+cond, arg).Scan(
		&rev.ID, &rev.WBReviewID, &rev.ProductID, &rev.NmID, &rev.SupplierArticle,
		&rev.Rating, &rev.Text, &rev.Pros, &rev.Cons, &rev.Author, &date,
		&rev.Status, &rev.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	if date.Valid {
		rev.Date = &date.Time
	}

	return &rev, nil
}

// ListReviews returns reviews newest-first, optionally filtered by status.
func (r *ReviewRepositoryImpl) ListReviews(status ReviewStatus, limit, offset int) ([]Review, error) {
	query := `
		SELECT id, wb_review_id, product_id, nm_id, supplier_article,
		       rating, text, pros, cons, author, date, status, created_at
		FROM reviews`
	args := []interface{}{}

	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var rev Review
		var date sql.NullTime
		err := rows.Scan(
			&rev.ID, &rev.WBReviewID, &rev.ProductID, &rev.NmID, &rev.SupplierArticle,
			&rev.Rating, &rev.Text, &rev.Pros, &rev.Cons, &rev.Author, &date,
			&rev.Status, &rev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		if date.Valid {
			rev.Date = &date.Time
		}
		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review rows: %w", err)
	}

	return reviews, nil
}

func (r *ReviewRepositoryImpl) UpdateReviewStatus(id int64, status ReviewStatus) error {
	_, err := r.db.Exec(`UPDATE reviews SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}
	return nil
}

func (r *ReviewRepositoryImpl) GetStatusCounts() (map[ReviewStatus]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM reviews GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[ReviewStatus]int)
	for rows.Next() {
		var status ReviewStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	return counts, nil
}

func (r *ReviewRepositoryImpl) GetReviewCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM reviews`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get review count: %w", err)
	}
	return count, nil
}

// GetLatestReviewDate returns the authored timestamp of the most recent
// stored review. It is the high-water mark for incremental fetching.
func (r *ReviewRepositoryImpl) GetLatestReviewDate() (*time.Time, error) {
	var latest time.Time
	err := r.db.QueryRow(`
		SELECT date FROM reviews
		WHERE date IS NOT NULL
		ORDER BY date DESC
		LIMIT 1
	`).Scan(&latest)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest review date: %w", err)
	}
	return &latest, nil
}

// MarkReplyPublished commits a successful publish outcome in one
// transaction: the reply becomes published, the review becomes
// published, and when actionType is set the latest unresolved
// notification is completed. An empty actionType means auto-publish
// with no operator card involved.
func (r *ReviewRepositoryImpl) MarkReplyPublished(reviewID, replyID int64, actionType string) error {
	return r.withTx(func(tx *sql.Tx) error {
		now := time.Now().UTC()

		if _, err := tx.Exec(`
			UPDATE replies SET status = ?, published_at = ? WHERE id = ?
		`, ReplyStatusPublished, now, replyID); err != nil {
			return fmt.Errorf("failed to mark reply published: %w", err)
		}

		if _, err := tx.Exec(`
			UPDATE reviews SET status = ? WHERE id = ?
		`, ReviewStatusPublished, reviewID); err != nil {
			return fmt.Errorf("failed to mark review published: %w", err)
		}

		if actionType != "" {
			if err := resolveNotificationTx(tx, reviewID, actionType, now); err != nil {
				return err
			}
		}

		return nil
	})
}

// MarkReplyApproved records a failed publish of a generated reply: the
// text is kept as approved, the review returns to the operator queue.
func (r *ReviewRepositoryImpl) MarkReplyApproved(reviewID, replyID int64) error {
	return r.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			UPDATE replies SET status = ? WHERE id = ?
		`, ReplyStatusApproved, replyID); err != nil {
			return fmt.Errorf("failed to mark reply approved: %w", err)
		}

		if _, err := tx.Exec(`
			UPDATE reviews SET status = ? WHERE id = ?
		`, ReviewStatusPending, reviewID); err != nil {
			return fmt.Errorf("failed to mark review pending: %w", err)
		}

		return nil
	})
}

// MarkSkipped moves a review to its terminal skipped state and resolves
// the latest unresolved notification.
func (r *ReviewRepositoryImpl) MarkSkipped(reviewID int64) error {
	return r.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			UPDATE reviews SET status = ? WHERE id = ?
		`, ReviewStatusSkipped, reviewID); err != nil {
			return fmt.Errorf("failed to mark review skipped: %w", err)
		}

		return resolveNotificationTx(tx, reviewID, ActionTypeSkip, time.Now().UTC())
	})
}

// resolveNotificationTx completes the most recent notification of a
// review. The action_taken_at IS NULL guard keeps resolution write-once:
// a stale callback never overwrites an earlier decision.
func resolveNotificationTx(tx *sql.Tx, reviewID int64, actionType string, at time.Time) error {
	_, err := tx.Exec(`
		UPDATE notifications
		SET status = ?, action_type = ?, action_taken_at = ?
		WHERE id = (
			SELECT id FROM notifications
			WHERE review_id = ? AND action_taken_at IS NULL
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
	`, NotificationStatusCompleted, actionType, at, reviewID)
	if err != nil {
		return fmt.Errorf("failed to resolve notification: %w", err)
	}
	return nil
}

func (r *ReviewRepositoryImpl) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
