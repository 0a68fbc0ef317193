// Package storage 把每次运行的聚合结果归档到 PostgreSQL，
// 用于事后排查与历史对比。归档失败不影响周报流程。
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/sre_weekly/internal/config"
	"github.com/iWorld-y/sre_weekly/internal/model"
)

type Storage struct {
	db *sql.DB
}

func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS report_runs (
			id SERIAL PRIMARY KEY,
			run_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			week_start TEXT,
			week_end TEXT,
			status TEXT,
			overall_summary TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS section_records (
			id SERIAL PRIMARY KEY,
			report_run_id INTEGER REFERENCES report_runs(id),
			section_key TEXT NOT NULL,
			position INTEGER NOT NULL,
			payload JSONB NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// SaveReport 在一个事务中归档整份周报。
// 各栏目 Schema 互不相同，记录按 JSONB 原样保存。
func (s *Storage) SaveReport(runID string, r *model.Report) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var reportRunID int
	err = tx.QueryRow(`
		INSERT INTO report_runs (run_id, title, week_start, week_end, status, overall_summary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		runID, r.Meta.Title, r.Meta.WeekStart, r.Meta.WeekEnd, r.Meta.Status, r.Meta.OverallSummary).Scan(&reportRunID)
	if err != nil {
		return fmt.Errorf("failed to insert report run: %w", err)
	}

	for _, sec := range r.Sections {
		for i, rec := range sec.Records {
			payload, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to marshal record: %w", err)
			}
			_, err = tx.Exec(`
				INSERT INTO section_records (report_run_id, section_key, position, payload)
				VALUES ($1, $2, $3, $4)`,
				reportRunID, sec.Key, i, payload)
			if err != nil {
				return fmt.Errorf("failed to insert section record: %w", err)
			}
		}
	}

	return tx.Commit()
}
