package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"sms-gateway/internal/models"
)

func (d *DB) CreateReceipt(ctx context.Context, r models.DeliveryReceipt) error {
	query := `
        INSERT INTO sms_deliveries (id, request_id, user_id, recipient, status, error, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := d.Pool.Exec(ctx, query,
		r.ID, r.RequestID, r.UserID, r.Recipient, r.Status, r.Error, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create delivery receipt: %w", err)
	}
	return nil
}

func (d *DB) GetReceiptsByRequestID(ctx context.Context, requestID uuid.UUID) ([]models.DeliveryReceipt, error) {
	rows, err := d.Pool.Query(ctx, `
        SELECT id, request_id, user_id, recipient, status, error, created_at
        FROM sms_deliveries
        WHERE request_id = $1
        ORDER BY created_at`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipts for request_id %s: %w", requestID, err)
	}
	defer rows.Close()

	return scanReceipts(rows)
}

func (d *DB) GetReceiptsByUserID(ctx context.Context, userID string) ([]models.DeliveryReceipt, error) {
	rows, err := d.Pool.Query(ctx, `
        SELECT id, request_id, user_id, recipient, status, error, created_at
        FROM sms_deliveries
        WHERE user_id = $1
        ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipts for user_id %s: %w", userID, err)
	}
	defer rows.Close()

	return scanReceipts(rows)
}

func scanReceipts(rows pgx.Rows) ([]models.DeliveryReceipt, error) {
	var receipts []models.DeliveryReceipt
	for rows.Next() {
		var r models.DeliveryReceipt
		var id, reqID pgtype.UUID
		if err := rows.Scan(&id, &reqID, &r.UserID, &r.Recipient, &r.Status, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan delivery receipt: %w", err)
		}
		r.ID = id.Bytes
		r.RequestID = reqID.Bytes
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}
