package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func TestGetPriceExactDay(t *testing.T) {
	db := openTestDB(t)
	if err := db.InsertPrice("aapl", "2020-03-16", 60.55); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := db.GetPrice("AAPL", "2020-03-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Price{Symbol: "AAPL", Date: "2020-03-16", Close: 60.55}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("unexpected price (-want +got):\n%s", diff)
	}
}

func TestGetPriceWeekendUsesPriorClose(t *testing.T) {
	db := openTestDB(t)
	db.InsertPrice("AAPL", "2020-03-12", 62.06)
	db.InsertPrice("AAPL", "2020-03-13", 69.49)

	// 2020-03-15 was a Sunday.
	p, err := db.GetPrice("AAPL", "2020-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || p.Date != "2020-03-13" {
		t.Fatalf("expected Friday close, got %+v", p)
	}
}

func TestGetPriceOutsideLookback(t *testing.T) {
	db := openTestDB(t)
	db.InsertPrice("AAPL", "2020-03-01", 68.0)

	p, err := db.GetPrice("AAPL", "2020-03-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil for close older than a week, got %+v", p)
	}
}

func TestGetPriceUnknownSymbol(t *testing.T) {
	db := openTestDB(t)
	p, err := db.GetPrice("ZZZZ", "2020-03-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Error("expected nil for unknown symbol")
	}
}

func TestGetPriceInvalidDate(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.GetPrice("AAPL", "16/03/2020"); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestImportPricesCSV(t *testing.T) {
	db := openTestDB(t)
	csv := `symbol,date,close
AAPL,2020-03-16,60.55
aapl, 2020-03-17, 63.21
NVDA,2020-03-16,49.03
`
	n, err := db.ImportPricesCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 rows, got %d", n)
	}

	p, _ := db.GetPrice("AAPL", "2020-03-17")
	if p == nil || p.Close != 63.21 {
		t.Errorf("expected 63.21, got %+v", p)
	}
}

func TestImportPricesCSVRollsBackOnBadRow(t *testing.T) {
	db := openTestDB(t)
	csv := "AAPL,2020-03-16,60.55\nAAPL,2020-03-17,abc\n"
	if _, err := db.ImportPricesCSV(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for bad close")
	}

	p, _ := db.GetPrice("AAPL", "2020-03-16")
	if p != nil {
		t.Error("expected no rows after failed import")
	}
}

func TestWatchlistLifecycle(t *testing.T) {
	db := openTestDB(t)

	id, err := db.AddWatch("nvda", ptr("NVIDIA"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero ID")
	}
	id, _ = db.AddWatch("NVDA", nil)
	if id != 0 {
		t.Error("expected 0 for duplicate symbol")
	}
	db.AddWatch("AAPL", nil)

	all, _ := db.GetWatchlist()
	if len(all) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(all))
	}
	if all[0].Symbol != "AAPL" {
		t.Errorf("expected sorted by symbol, got %q first", all[0].Symbol)
	}

	ok, err := db.ToggleWatch("aapl")
	if err != nil || !ok {
		t.Fatalf("toggle failed: %v", err)
	}
	active, _ := db.GetActiveWatchlist()
	if len(active) != 1 || active[0].Symbol != "NVDA" {
		t.Errorf("expected only NVDA active, got %+v", active)
	}

	w, _ := db.GetWatch("NVDA")
	if w == nil || w.DisplayName == nil || *w.DisplayName != "NVIDIA" {
		t.Errorf("expected display name NVIDIA, got %+v", w)
	}

	ok, _ = db.RemoveWatch("NVDA")
	if !ok {
		t.Error("expected remove to report existing symbol")
	}
	ok, _ = db.RemoveWatch("NVDA")
	if ok {
		t.Error("expected second remove to report missing symbol")
	}
	w, _ = db.GetWatch("NVDA")
	if w != nil {
		t.Error("expected nil after remove")
	}
}

func TestReportLifecycle(t *testing.T) {
	db := openTestDB(t)

	first, err := db.InsertReport(StoredReport{
		Symbol: "NVDA", Label: "positive", Score: 0.4,
		Sources: []string{"newsapi", "reddit"}, ArticleCount: 5, Body: `{"symbol":"NVDA"}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := db.InsertReport(StoredReport{
		Symbol: "AAPL", Label: "neutral", Sources: []string{"static"}, Fallback: true, Body: `{}`,
	})

	r, err := db.GetReport(first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r == nil {
		t.Fatal("expected report")
	}
	if diff := cmp.Diff([]string{"newsapi", "reddit"}, r.Sources); diff != "" {
		t.Errorf("unexpected sources (-want +got):\n%s", diff)
	}
	if r.Fallback {
		t.Error("expected live report")
	}

	latest, _ := db.LatestReports(10)
	if len(latest) != 2 || latest[0].ID != second {
		t.Errorf("expected newest report first, got %+v", latest)
	}

	forNVDA, _ := db.LatestReportFor("nvda")
	if forNVDA == nil || forNVDA.ID != first {
		t.Errorf("expected NVDA report, got %+v", forNVDA)
	}

	missing, err := db.GetReport(999)
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing report, got %v, %v", missing, err)
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *stats != (Stats{}) {
		t.Errorf("expected zero stats on empty db, got %+v", stats)
	}

	db.InsertPrice("AAPL", "2020-03-16", 60.55)
	db.InsertPrice("AAPL", "2020-03-17", 63.21)
	db.InsertPrice("NVDA", "2020-03-16", 49.03)
	db.AddWatch("AAPL", nil)
	db.InsertReport(StoredReport{Symbol: "AAPL", Label: "neutral", Fallback: true, Body: "{}"})

	stats, _ = db.GetStats()
	want := Stats{PricedSymbols: 2, PriceRows: 3, WatchedSymbols: 1, ActiveSymbols: 1, Reports: 1, FallbackReports: 1}
	if diff := cmp.Diff(want, *stats); diff != "" {
		t.Errorf("unexpected stats (-want +got):\n%s", diff)
	}
}
