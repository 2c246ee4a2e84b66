package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"phishguard/internal/domain/models"
)

// ScanRepository persists scan history in the scans table
type ScanRepository struct {
	pool *pgxpool.Pool
}

// NewScanRepository creates a new scan repository
func NewScanRepository(pool *pgxpool.Pool) *ScanRepository {
	return &ScanRepository{pool: pool}
}

// EnsureSchema creates the scans table if it does not exist
func (r *ScanRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS scans (
			id         UUID PRIMARY KEY,
			type       TEXT NOT NULL,
			target     TEXT NOT NULL,
			verdict    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans (created_at DESC);`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure scans schema: %w", err)
	}
	return nil
}

// Insert stores one completed scan
func (r *ScanRepository) Insert(ctx context.Context, record *models.ScanRecord) error {
	verdict, err := json.Marshal(record.Verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}

	query := `
		INSERT INTO scans (id, type, target, verdict, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.pool.Exec(ctx, query,
		record.ID, record.Type, record.Target, verdict, record.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert scan record: %w", err)
	}

	return nil
}

// ListRecent returns the newest scans first
func (r *ScanRepository) ListRecent(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	query := `
		SELECT id, type, target, verdict, created_at
		FROM scans
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	records := make([]models.ScanRecord, 0, limit)
	for rows.Next() {
		var record models.ScanRecord
		var verdict []byte
		if err := rows.Scan(&record.ID, &record.Type, &record.Target, &verdict, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if err := json.Unmarshal(verdict, &record.Verdict); err != nil {
			return nil, fmt.Errorf("failed to unmarshal verdict: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Stats aggregates scan counts by type and risk level
func (r *ScanRepository) Stats(ctx context.Context) (*models.ScanStats, error) {
	stats := &models.ScanStats{
		ByType:  make(map[models.ScanType]int64),
		ByLevel: make(map[models.RiskLevel]int64),
	}

	query := `
		SELECT type,
		       verdict->>'risk_level' AS level,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE (verdict->>'is_phishing')::boolean) AS phishing
		FROM scans
		GROUP BY type, verdict->>'risk_level'`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var scanType models.ScanType
		var level models.RiskLevel
		var total, phishing int64
		if err := rows.Scan(&scanType, &level, &total, &phishing); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.TotalScans += total
		stats.PhishingCount += phishing
		stats.ByType[scanType] += total
		stats.ByLevel[level] += total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.TotalScans > 0 {
		stats.DetectionRate = float64(stats.PhishingCount) / float64(stats.TotalScans)
	}

	return stats, nil
}
