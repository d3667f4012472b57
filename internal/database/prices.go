package database

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the layout of every stored date.
const DateFormat = "2006-01-02"

// priceLookback is how far before the requested date GetPrice searches for a
// close, covering weekends and market holidays.
const priceLookback = 7

// InsertPrice stores a close, replacing any existing row for the same day.
func (db *DB) InsertPrice(symbol, date string, close float64) error {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO prices (symbol, date, close) VALUES (?, ?, ?)`,
		normalizeSymbol(symbol), date, close,
	)
	return err
}

// GetPrice returns the close for symbol on date, or the latest close in the
// preceding week when the market was shut that day. Returns nil when no close
// is on record.
func (db *DB) GetPrice(symbol, date string) (*Price, error) {
	day, err := time.Parse(DateFormat, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	earliest := day.AddDate(0, 0, -priceLookback).Format(DateFormat)

	var p Price
	err = db.conn.QueryRow(
		`SELECT symbol, date, close FROM prices
		 WHERE symbol = ? AND date <= ? AND date >= ?
		 ORDER BY date DESC LIMIT 1`,
		normalizeSymbol(symbol), date, earliest,
	).Scan(&p.Symbol, &p.Date, &p.Close)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ImportPricesCSV reads symbol,date,close rows and stores them in one
// transaction. A leading header row is skipped. Returns the number of rows
// stored.
func (db *DB) ImportPricesCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO prices (symbol, date, close) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading csv: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "symbol") {
			continue
		}

		date := strings.TrimSpace(rec[1])
		if _, err := time.Parse(DateFormat, date); err != nil {
			return 0, fmt.Errorf("line %d: invalid date %q", line, date)
		}
		close, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return 0, fmt.Errorf("line %d: invalid close %q", line, rec[2])
		}

		if _, err := stmt.Exec(normalizeSymbol(rec[0]), date, close); err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
