package database

import (
	"database/sql"
	"encoding/json"
)

// InsertReport archives a report and returns its ID.
func (db *DB) InsertReport(r StoredReport) (int64, error) {
	sources, err := json.Marshal(r.Sources)
	if err != nil {
		return 0, err
	}
	fallback := 0
	if r.Fallback {
		fallback = 1
	}

	result, err := db.conn.Exec(
		`INSERT INTO reports (symbol, label, score, sources, article_count, fallback, body_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		normalizeSymbol(r.Symbol), r.Label, r.Score, string(sources), r.ArticleCount, fallback, r.Body,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetReport returns one report by ID, or nil if it does not exist.
func (db *DB) GetReport(id int64) (*StoredReport, error) {
	rows, err := db.conn.Query(reportColumns+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	reports, err := scanReports(rows)
	if err != nil || len(reports) == 0 {
		return nil, err
	}
	return &reports[0], nil
}

// LatestReports returns the newest reports, at most limit.
func (db *DB) LatestReports(limit int) ([]StoredReport, error) {
	rows, err := db.conn.Query(reportColumns+" ORDER BY generated_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	return scanReports(rows)
}

// LatestReportFor returns the newest report for a symbol, or nil.
func (db *DB) LatestReportFor(symbol string) (*StoredReport, error) {
	rows, err := db.conn.Query(
		reportColumns+" WHERE symbol = ? ORDER BY generated_at DESC, id DESC LIMIT 1",
		normalizeSymbol(symbol),
	)
	if err != nil {
		return nil, err
	}
	reports, err := scanReports(rows)
	if err != nil || len(reports) == 0 {
		return nil, err
	}
	return &reports[0], nil
}

const reportColumns = `SELECT id, symbol, label, score, sources, article_count, fallback, body_json, generated_at FROM reports`

func scanReports(rows *sql.Rows) ([]StoredReport, error) {
	defer rows.Close()

	var reports []StoredReport
	for rows.Next() {
		var r StoredReport
		var sources *string
		var fallback int
		if err := rows.Scan(&r.ID, &r.Symbol, &r.Label, &r.Score, &sources, &r.ArticleCount, &fallback, &r.Body, &r.GeneratedAt); err != nil {
			return nil, err
		}
		r.Fallback = fallback != 0
		if sources != nil {
			if err := json.Unmarshal([]byte(*sources), &r.Sources); err != nil {
				r.Sources = nil
			}
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(DISTINCT symbol) FROM prices", &s.PricedSymbols},
		{"SELECT COUNT(*) FROM prices", &s.PriceRows},
		{"SELECT COUNT(*) FROM watchlist", &s.WatchedSymbols},
		{"SELECT COUNT(*) FROM watchlist WHERE is_active = 1", &s.ActiveSymbols},
		{"SELECT COUNT(*) FROM reports", &s.Reports},
		{"SELECT COUNT(*) FROM reports WHERE fallback = 1", &s.FallbackReports},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}
