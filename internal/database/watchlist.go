package database

import (
	"database/sql"
)

// AddWatch adds a symbol to the watchlist. Returns 0 if it is already there.
func (db *DB) AddWatch(symbol string, displayName *string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT OR IGNORE INTO watchlist (symbol, display_name) VALUES (?, ?)`,
		normalizeSymbol(symbol), displayName,
	)
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return 0, nil
	}
	return result.LastInsertId()
}

// GetWatchlist returns every watched symbol.
func (db *DB) GetWatchlist() ([]WatchItem, error) {
	return db.queryWatchlist("SELECT id, symbol, display_name, is_active, created_at FROM watchlist ORDER BY symbol")
}

// GetActiveWatchlist returns only active symbols.
func (db *DB) GetActiveWatchlist() ([]WatchItem, error) {
	return db.queryWatchlist("SELECT id, symbol, display_name, is_active, created_at FROM watchlist WHERE is_active = 1 ORDER BY symbol")
}

// GetWatch returns a single entry by symbol.
func (db *DB) GetWatch(symbol string) (*WatchItem, error) {
	row := db.conn.QueryRow(
		"SELECT id, symbol, display_name, is_active, created_at FROM watchlist WHERE symbol = ?",
		normalizeSymbol(symbol),
	)
	var w WatchItem
	var active int
	err := row.Scan(&w.ID, &w.Symbol, &w.DisplayName, &active, &w.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	w.IsActive = active != 0
	return &w, nil
}

// ToggleWatch flips the active state of a symbol. Reports whether it exists.
func (db *DB) ToggleWatch(symbol string) (bool, error) {
	result, err := db.conn.Exec(
		`UPDATE watchlist SET is_active = NOT is_active WHERE symbol = ?`,
		normalizeSymbol(symbol),
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// RemoveWatch deletes a symbol. Reports whether it existed.
func (db *DB) RemoveWatch(symbol string) (bool, error) {
	result, err := db.conn.Exec("DELETE FROM watchlist WHERE symbol = ?", normalizeSymbol(symbol))
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (db *DB) queryWatchlist(query string, args ...any) ([]WatchItem, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []WatchItem
	for rows.Next() {
		var w WatchItem
		var active int
		if err := rows.Scan(&w.ID, &w.Symbol, &w.DisplayName, &active, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.IsActive = active != 0
		items = append(items, w)
	}
	return items, rows.Err()
}
