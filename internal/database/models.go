package database

// Price is one daily close.
type Price struct {
	Symbol string
	Date   string // YYYY-MM-DD
	Close  float64
}

// WatchItem is a symbol scanned by the scan command.
type WatchItem struct {
	ID          int64
	Symbol      string
	DisplayName *string
	IsActive    bool
	CreatedAt   *string
}

// StoredReport is an archived sentiment report. Body holds the full report
// as JSON; the other columns are denormalised for listing.
type StoredReport struct {
	ID           int64
	Symbol       string
	Label        string
	Score        float64
	Sources      []string
	ArticleCount int
	Fallback     bool
	Body         string
	GeneratedAt  *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	PricedSymbols   int
	PriceRows       int
	WatchedSymbols  int
	ActiveSymbols   int
	Reports         int
	FallbackReports int
}
