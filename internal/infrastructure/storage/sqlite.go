package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"futures-risk-calc/internal/domain"
)

// SQLiteStore persists calculation history. One flat row per calculation.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS calculations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			exchange TEXT NOT NULL,
			symbol TEXT NOT NULL,
			direction TEXT NOT NULL,
			entry_price REAL NOT NULL,
			stop_loss REAL NOT NULL,
			target_price REAL NOT NULL,
			account_size REAL NOT NULL,
			risk_percent REAL NOT NULL,
			position_size REAL NOT NULL,
			position_value REAL NOT NULL,
			risk_amount REAL NOT NULL,
			reward_amount REAL NOT NULL,
			risk_reward_ratio REAL NOT NULL,
			risk_level TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations(created_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}

	return nil
}

func (s *SQLiteStore) SaveCalculation(ctx context.Context, rec *domain.CalculationRecord) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO calculations (
			exchange, symbol, direction,
			entry_price, stop_loss, target_price, account_size, risk_percent,
			position_size, position_value, risk_amount, reward_amount,
			risk_reward_ratio, risk_level, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Exchange, rec.Symbol, string(rec.Direction),
		rec.EntryPrice, rec.StopLoss, rec.TargetPrice, rec.AccountSize, rec.RiskPercent,
		rec.PositionSize, rec.PositionValue, rec.RiskAmount, rec.RewardAmount,
		rec.RiskRewardRatio, string(rec.RiskLevel), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}

	id, err := res.LastInsertId()
	if err == nil {
		rec.ID = id
	}
	return nil
}

func (s *SQLiteStore) ListCalculations(ctx context.Context, limit int) ([]*domain.CalculationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, exchange, symbol, direction,
			entry_price, stop_loss, target_price, account_size, risk_percent,
			position_size, position_value, risk_amount, reward_amount,
			risk_reward_ratio, risk_level, created_at
		FROM calculations
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	var records []*domain.CalculationRecord
	for rows.Next() {
		var rec domain.CalculationRecord
		var direction, riskLevel string
		if err := rows.Scan(
			&rec.ID, &rec.Exchange, &rec.Symbol, &direction,
			&rec.EntryPrice, &rec.StopLoss, &rec.TargetPrice, &rec.AccountSize, &rec.RiskPercent,
			&rec.PositionSize, &rec.PositionValue, &rec.RiskAmount, &rec.RewardAmount,
			&rec.RiskRewardRatio, &riskLevel, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Direction = domain.Direction(direction)
		rec.RiskLevel = domain.RiskLevel(riskLevel)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
