package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("not found")

type URLLog struct {
	ID        int64     `json:"id"`
	UserID    *string   `json:"userId"`
	URL       string    `json:"url"`
	RiskScore int       `json:"riskScore"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type ThreatReason struct {
	ID         int64  `json:"id"`
	Reason     string `json:"reason"`
	ScoreAdded int    `json:"scoreAdded"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// LogVerdict appends one evaluation to the URL log together with its reasons
// and returns the generated row identifier. Reason rows carry a zero
// score_added; per-reason attribution is not tracked.
func (d *Database) LogVerdict(ctx context.Context, userID *string, url string, totalScore int, status string, reasons []string) (int64, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin log transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var logID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO url_logs (user_id, url, risk_score, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, userID, url, totalScore, status).Scan(&logID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert url log: %w", err)
	}

	for _, reason := range reasons {
		if _, err := tx.Exec(ctx, `
			INSERT INTO threat_reasons (url_log_id, reason, score_added)
			VALUES ($1, $2, 0)
		`, logID, reason); err != nil {
			return 0, fmt.Errorf("failed to insert threat reason: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit url log: %w", err)
	}
	return logID, nil
}

func (d *Database) GetLogByID(ctx context.Context, id int64) (URLLog, error) {
	var l URLLog
	err := d.Pool.QueryRow(ctx, `
		SELECT id, user_id, url, risk_score, status, created_at
		FROM url_logs WHERE id = $1
	`, id).Scan(&l.ID, &l.UserID, &l.URL, &l.RiskScore, &l.Status, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return l, ErrNotFound
	}
	return l, err
}

func (d *Database) ListReasons(ctx context.Context, logID int64) ([]ThreatReason, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, reason, score_added
		FROM threat_reasons WHERE url_log_id = $1
		ORDER BY id
	`, logID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reasons := []ThreatReason{}
	for rows.Next() {
		var r ThreatReason
		if err := rows.Scan(&r.ID, &r.Reason, &r.ScoreAdded); err != nil {
			return nil, err
		}
		reasons = append(reasons, r)
	}
	return reasons, rows.Err()
}

func (d *Database) ListRecentLogs(ctx context.Context, limit, offset int) ([]URLLog, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, user_id, url, risk_score, status, created_at
		FROM url_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []URLLog{}
	for rows.Next() {
		var l URLLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.URL, &l.RiskScore, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (d *Database) CountLogs(ctx context.Context) (int64, error) {
	var count int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM url_logs`).Scan(&count)
	return count, err
}

func (d *Database) ListStatusCounts(ctx context.Context) ([]StatusCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT status, COUNT(*) FROM url_logs
		GROUP BY status ORDER BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []StatusCount{}
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (d *Database) ListTopRiskLogs(ctx context.Context, limit int) ([]URLLog, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, user_id, url, risk_score, status, created_at
		FROM url_logs
		WHERE status <> 'safe'
		ORDER BY risk_score DESC, created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []URLLog{}
	for rows.Next() {
		var l URLLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.URL, &l.RiskScore, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
