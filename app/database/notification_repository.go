package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ NotificationRepository = (*NotificationRepositoryImpl)(nil)

type NotificationRepositoryImpl struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepositoryImpl {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) CreateNotification(reviewID int64, messageID string) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO notifications (review_id, message_id, status, created_at)
		VALUES (?, ?, ?, ?)
	`, reviewID, messageID, NotificationStatusSent, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert notification: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted notification id: %w", err)
	}

	return id, nil
}

func (r *NotificationRepositoryImpl) GetCurrentNotification(reviewID int64) (*Notification, error) {
	var n Notification
	var actionTakenAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, review_id, message_id, status, action_type, created_at, action_taken_at
		FROM notifications
		WHERE review_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, reviewID).Scan(
		&n.ID, &n.ReviewID, &n.MessageID, &n.Status, &n.ActionType,
		&n.CreatedAt, &actionTakenAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current notification: %w", err)
	}

	if actionTakenAt.Valid {
		n.ActionTakenAt = &actionTakenAt.Time
	}

	return &n, nil
}

// SupersedeUnresolved marks all still-open notifications of a review as
// superseded. Called before a fresh card is sent on regeneration, so
// buttons on old cards stop representing the current draft.
func (r *NotificationRepositoryImpl) SupersedeUnresolved(reviewID int64) (int, error) {
	res, err := r.db.Exec(`
		UPDATE notifications
		SET status = ?
		WHERE review_id = ? AND action_taken_at IS NULL AND status = ?
	`, NotificationStatusSuperseded, reviewID, NotificationStatusSent)
	if err != nil {
		return 0, fmt.Errorf("failed to supersede notifications: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(affected), nil
}
