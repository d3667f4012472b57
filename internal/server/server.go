package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/TobiSchelling/stocrates/internal/aggregate"
	"github.com/TobiSchelling/stocrates/internal/database"
	"github.com/TobiSchelling/stocrates/internal/fallback"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Analyzer builds sentiment reports. *aggregate.Aggregator implements it.
type Analyzer interface {
	Analyze(ctx context.Context, req aggregate.Request) *aggregate.Report
}

// StatusSource reports and resets provider availability. *fallback.Manager
// implements it.
type StatusSource interface {
	Statuses() []fallback.ProviderStatus
	Reset(name string) bool
}

// Server is the HTTP server for the JSON API and the report pages.
type Server struct {
	db        *database.DB
	analyzer  Analyzer
	providers StatusSource
	pages     map[string]*template.Template
	mux       *http.ServeMux
}

// New creates a new Server.
func New(db *database.DB, analyzer Analyzer, providers StatusSource) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"signed": func(f float64) string { return fmt.Sprintf("%+.2f", f) },
		"pct":    func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
		"ago":    humanizeAge,
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// Each page clones the base and defines its own "title" and "content".
	pageNames := []string{"index.html", "report.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{db: db, analyzer: analyzer, providers: providers, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// JSON API
	s.mux.HandleFunc("GET /api/historical-price", s.handleHistoricalPrice)
	s.mux.HandleFunc("GET /api/news", s.handleNews)
	s.mux.HandleFunc("GET /api/providers", s.handleProviders)
	s.mux.HandleFunc("POST /api/providers/{name}/reset", s.handleProviderReset)

	// Pages
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /report/{id}", s.handleReport)
}

func (s *Server) handleHistoricalPrice(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if symbol == "" || date == "" {
		writeError(w, http.StatusBadRequest, "symbol and date are required")
		return
	}
	if _, err := time.Parse(database.DateFormat, date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	p, err := s.db.GetPrice(symbol, date)
	if err != nil {
		log.Printf("Price lookup failed for %s on %s: %v", symbol, date, err)
		writeError(w, http.StatusInternalServerError, "price lookup failed")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no price for %s on %s", symbol, date))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"price":      p.Close,
		"symbol":     p.Symbol,
		"date":       date,
		"close_date": p.Date,
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := strings.TrimSpace(q.Get("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	req := aggregate.Request{
		Symbol:  symbol,
		Name:    strings.TrimSpace(q.Get("name")),
		Social:  parseBool(q.Get("social")),
		Explain: parseBool(q.Get("explain")),
	}
	if d := q.Get("days"); d != "" {
		days, err := strconv.Atoi(d)
		if err != nil || days < 1 || days > 30 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 30")
			return
		}
		req.DaysBack = days
	}

	report := s.analyzer.Analyze(r.Context(), req)
	if _, err := aggregate.Archive(s.db, report); err != nil {
		log.Printf("Failed to archive report for %s: %v", report.Symbol, err)
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"providers": s.providers.Statuses(),
	})
}

func (s *Server) handleProviderReset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	for _, st := range s.providers.Statuses() {
		if strings.EqualFold(st.Name, name) {
			s.providers.Reset(st.Name)
			log.Printf("Provider %s re-enabled by request", st.Name)
			writeJSON(w, http.StatusOK, map[string]any{"reset": st.Name})
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("unknown provider %q", name))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	watchlist, err := s.db.GetWatchlist()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	reports, err := s.db.LatestReports(20)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "index.html", map[string]any{
		"Watchlist": watchlist,
		"Reports":   reports,
		"Providers": s.providers.Statuses(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	report, err := aggregate.Load(s.db, id)
	if err != nil {
		log.Printf("Failed to load report %d: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if report == nil {
		s.render(w, http.StatusNotFound, "report.html", map[string]any{"ID": id})
		return
	}

	s.render(w, http.StatusOK, "report.html", map[string]any{
		"ID":     id,
		"Report": report,
	})
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

func humanizeAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return t.Format("Jan 2")
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, analyzer Analyzer, providers StatusSource, port int) error {
	srv, err := New(db, analyzer, providers)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
