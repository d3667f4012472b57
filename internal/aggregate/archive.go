package aggregate

import (
	"encoding/json"
	"fmt"

	"github.com/TobiSchelling/stocrates/internal/database"
)

// Archive stores a report and returns its ID.
func Archive(db *database.DB, r *Report) (int64, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("encoding report: %w", err)
	}
	return db.InsertReport(database.StoredReport{
		Symbol:       r.Symbol,
		Label:        string(r.Label),
		Score:        r.Score,
		Sources:      r.SourceNames(),
		ArticleCount: len(r.Articles),
		Fallback:     r.Fallback,
		Body:         string(body),
	})
}

// Load returns an archived report, or nil if id is unknown.
func Load(db *database.DB, id int64) (*Report, error) {
	stored, err := db.GetReport(id)
	if err != nil || stored == nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal([]byte(stored.Body), &r); err != nil {
		return nil, fmt.Errorf("decoding report %d: %w", id, err)
	}
	return &r, nil
}
