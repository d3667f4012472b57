package fallback

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/TobiSchelling/stocrates/internal/news"
)

// DefaultCooldown is how long a rate-limited provider is skipped.
const DefaultCooldown = time.Hour

// DefaultMinInterval is the default spacing between requests to one provider.
const DefaultMinInterval = time.Second

// Attempt outcomes recorded in Result.Attempts.
const (
	OutcomeSuccess      = "success"
	OutcomeEmpty        = "empty"
	OutcomeRateLimited  = "rate_limited"
	OutcomeError        = "error"
	OutcomeCoolingDown  = "cooling_down"
	OutcomeUnconfigured = "unconfigured"
)

// ProviderStatus is the availability and rate-limit bookkeeping for one provider.
type ProviderStatus struct {
	Name             string     `json:"name"`
	Configured       bool       `json:"configured"`
	Available        bool       `json:"available"`
	RateLimitResetAt *time.Time `json:"rate_limit_reset_at,omitempty"`
	LastError        string     `json:"last_error,omitempty"`
	RequestCount     int        `json:"request_count"`
	LastRequestAt    time.Time  `json:"last_request_at"`
}

// Attempt describes what happened to one provider during a Fetch.
type Attempt struct {
	Provider string `json:"provider"`
	Outcome  string `json:"outcome"`
	Articles int    `json:"articles"`
	Error    string `json:"error,omitempty"`
}

// Result is the outcome of a Fetch. Secondary is set when a provider other
// than the first served the articles; FallbackUsed only when none did.
type Result struct {
	Articles     []news.Article `json:"articles"`
	Provider     string         `json:"provider,omitempty"`
	Secondary    bool           `json:"secondary"`
	FallbackUsed bool           `json:"fallback_used"`
	Attempts     []Attempt      `json:"attempts"`
}

// Config controls cooldown, spacing and the time source.
// Zero values select the defaults.
type Config struct {
	Cooldown time.Duration
	// MinInterval is the default spacing; Intervals overrides it per provider name.
	MinInterval time.Duration
	Intervals   map[string]time.Duration
	Now         func() time.Time
	Sleep       func(ctx context.Context, d time.Duration) error
}

// Manager tries providers in priority order and tracks their rate-limit state.
type Manager struct {
	providers []news.Provider
	cooldown  time.Duration
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	statuses map[string]*ProviderStatus
	limiters map[string]*rate.Limiter
}

// NewManager creates a manager over providers, highest priority first.
// Providers with duplicate names share one status entry; the first one wins.
func NewManager(providers []news.Provider, cfg Config) *Manager {
	m := &Manager{
		cooldown: cfg.Cooldown,
		now:      cfg.Now,
		sleep:    cfg.Sleep,
		statuses: make(map[string]*ProviderStatus),
		limiters: make(map[string]*rate.Limiter),
	}
	if m.cooldown <= 0 {
		m.cooldown = DefaultCooldown
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.sleep == nil {
		m.sleep = sleepContext
	}

	defaultInterval := cfg.MinInterval
	if defaultInterval <= 0 {
		defaultInterval = DefaultMinInterval
	}

	for _, p := range providers {
		name := p.Name()
		if _, dup := m.statuses[name]; dup {
			log.Printf("Ignoring duplicate provider %s", name)
			continue
		}
		m.providers = append(m.providers, p)

		st := &ProviderStatus{Name: name, Configured: p.IsConfigured(), Available: true}
		if !st.Configured {
			st.LastError = "api key not configured"
		}
		m.statuses[name] = st

		interval := defaultInterval
		if d, ok := cfg.Intervals[name]; ok && d > 0 {
			interval = d
		}
		m.limiters[name] = rate.NewLimiter(rate.Every(interval), 1)
	}
	return m
}

// Fetch returns articles from the first available provider that yields any.
// It never returns an error: exhaustion is reported as an empty Result with
// FallbackUsed set.
func (m *Manager) Fetch(ctx context.Context, q news.Query) *Result {
	r := &Result{}

	for i, p := range m.providers {
		name := p.Name()

		if !p.IsConfigured() {
			r.Attempts = append(r.Attempts, Attempt{Provider: name, Outcome: OutcomeUnconfigured})
			continue
		}
		if !m.ready(name) {
			r.Attempts = append(r.Attempts, Attempt{Provider: name, Outcome: OutcomeCoolingDown})
			continue
		}

		if err := m.wait(ctx, name); err != nil {
			r.Attempts = append(r.Attempts, Attempt{Provider: name, Outcome: OutcomeError, Error: err.Error()})
			break
		}

		articles, err := p.Fetch(ctx, q)
		outcome := m.record(name, len(articles), err)

		attempt := Attempt{Provider: name, Outcome: outcome, Articles: len(articles)}
		if err != nil {
			attempt.Error = err.Error()
		}
		r.Attempts = append(r.Attempts, attempt)

		if outcome == OutcomeSuccess {
			r.Articles = articles
			r.Provider = name
			r.Secondary = i > 0
			return r
		}
	}

	log.Printf("All news providers exhausted for %s", q.Symbol)
	r.FallbackUsed = true
	return r
}

// Statuses returns a snapshot of every provider's status in priority order.
func (m *Manager) Statuses() []ProviderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make([]ProviderStatus, 0, len(m.providers))
	for _, p := range m.providers {
		st := m.statuses[p.Name()]
		m.refresh(st, now)
		out = append(out, copyStatus(st))
	}
	return out
}

// Status returns a snapshot of one provider's status.
func (m *Manager) Status(name string) (ProviderStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.statuses[name]
	if !ok {
		return ProviderStatus{}, false
	}
	m.refresh(st, m.now())
	return copyStatus(st), true
}

// Reset clears a provider's cooldown and last error. It reports whether the
// provider exists.
func (m *Manager) Reset(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.statuses[name]
	if !ok {
		return false
	}
	st.Available = true
	st.RateLimitResetAt = nil
	if st.Configured {
		st.LastError = ""
	}
	return true
}

// ready reports whether a provider may be attempted, re-enabling it when its
// cooldown has elapsed.
func (m *Manager) ready(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.statuses[name]
	m.refresh(st, m.now())
	return st.Available
}

// wait blocks until the provider's limiter admits one more request.
func (m *Manager) wait(ctx context.Context, name string) error {
	m.mu.Lock()
	lim := m.limiters[name]
	now := m.now()
	res := lim.ReserveN(now, 1)
	m.mu.Unlock()

	delay := res.DelayFrom(now)
	if delay <= 0 {
		return nil
	}
	if err := m.sleep(ctx, delay); err != nil {
		res.CancelAt(now)
		return err
	}
	return nil
}

// record applies the outcome of one fetch to the provider status.
func (m *Manager) record(name string, n int, err error) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	st := m.statuses[name]
	st.LastRequestAt = now

	switch {
	case err != nil && news.IsRateLimit(err):
		reset := now.Add(m.cooldown)
		st.Available = false
		st.RateLimitResetAt = &reset
		st.LastError = err.Error()
		log.Printf("%s rate limited, skipping until %s", name, reset.Format(time.RFC3339))
		return OutcomeRateLimited
	case err != nil:
		st.LastError = err.Error()
		log.Printf("%s error: %v", name, err)
		return OutcomeError
	case n == 0:
		log.Printf("%s returned no articles, trying next provider", name)
		return OutcomeEmpty
	}

	st.LastError = ""
	st.RequestCount++
	return OutcomeSuccess
}

// refresh keeps the invariant that Available is false only while now < reset.
func (m *Manager) refresh(st *ProviderStatus, now time.Time) {
	if st.Available {
		return
	}
	if st.RateLimitResetAt == nil || !now.Before(*st.RateLimitResetAt) {
		st.Available = true
		st.RateLimitResetAt = nil
	}
}

func copyStatus(st *ProviderStatus) ProviderStatus {
	c := *st
	if st.RateLimitResetAt != nil {
		reset := *st.RateLimitResetAt
		c.RateLimitResetAt = &reset
	}
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
