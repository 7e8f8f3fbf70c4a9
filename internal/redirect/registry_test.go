package redirect

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/analytics"
	"github.com/aviranmz/thedude/internal/clock"
	"github.com/aviranmz/thedude/internal/db"
	"github.com/aviranmz/thedude/internal/models"
)

// memStore mimics the store's atomic consume semantics in memory.
type memStore struct {
	mu        sync.Mutex
	records   map[string]*models.Redirect
	createErr error
	failNext  int // force ErrDuplicateToken on the next N creates
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*models.Redirect{}}
}

func (s *memStore) CreateRedirect(_ context.Context, r *models.Redirect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return s.createErr
	}
	if s.failNext > 0 {
		s.failNext--
		return db.ErrDuplicateToken
	}
	if _, exists := s.records[r.Token]; exists {
		return db.ErrDuplicateToken
	}

	stored := *r
	stored.CreatedAt = time.Now()
	s.records[r.Token] = &stored
	return nil
}

func (s *memStore) ConsumeRedirect(_ context.Context, token string, now time.Time) (string, models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[token]
	if !ok {
		return "", "", db.ErrRedirectNotFound
	}
	if r.Expired(now) {
		return "", "", db.ErrRedirectExpired
	}
	if r.Exhausted() {
		return "", "", db.ErrClickLimitReached
	}
	r.Clicks++
	return r.OriginalURL, r.Type, nil
}

func (s *memStore) clicks(token string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[token]; ok {
		return r.Clicks
	}
	return -1
}

func newTestRegistry(store Store, clk clock.Clock) *Registry {
	logger := zerolog.Nop()
	return NewRegistry(store, analytics.NewLogSink(logger), clk, "https://go.example.com", logger)
}

func TestIssueAndResolve(t *testing.T) {
	store := newMemStore()
	clk := clock.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := newTestRegistry(store, clk)

	issued, err := registry.Issue(context.Background(), IssueRequest{
		OriginalURL: "https://vendor.example/offer123",
		Type:        models.CategoryHotel,
		Metadata:    map[string]any{"price": 120.0},
		ExpiresIn:   7 * 24 * time.Hour,
		MaxClicks:   10,
	})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if issued.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if want := "https://go.example.com/r/" + issued.Token; issued.RedirectURL != want {
		t.Errorf("RedirectURL = %q, want %q", issued.RedirectURL, want)
	}
	if issued.ExpiresAt == nil {
		t.Fatal("expected expiry to be set")
	}
	if want := clk.Now().Add(7 * 24 * time.Hour); !issued.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", issued.ExpiresAt, want)
	}

	dest, err := registry.Resolve(context.Background(), issued.Token, Visitor{IP: "203.0.113.7"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if dest != "https://vendor.example/offer123" {
		t.Errorf("destination = %q, want original URL", dest)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	registry := newTestRegistry(newMemStore(), clock.NewRealClock())

	_, err := registry.Resolve(context.Background(), "zzz", Visitor{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveClickLimit(t *testing.T) {
	store := newMemStore()
	registry := newTestRegistry(store, clock.NewRealClock())

	issued, err := registry.Issue(context.Background(), IssueRequest{
		OriginalURL: "https://vendor.example/offer123",
		Type:        models.CategoryHotel,
		ExpiresIn:   7 * 24 * time.Hour,
		MaxClicks:   10,
	})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		dest, err := registry.Resolve(context.Background(), issued.Token, Visitor{})
		if err != nil {
			t.Fatalf("resolution %d failed: %v", i+1, err)
		}
		if dest != "https://vendor.example/offer123" {
			t.Fatalf("resolution %d returned %q", i+1, dest)
		}
	}

	_, err = registry.Resolve(context.Background(), issued.Token, Visitor{})
	if !errors.Is(err, ErrLimitReached) {
		t.Errorf("11th resolution: expected ErrLimitReached, got %v", err)
	}
	if got := store.clicks(issued.Token); got != 10 {
		t.Errorf("final clicks = %d, want 10", got)
	}
}

func TestResolveExpired(t *testing.T) {
	store := newMemStore()
	clk := clock.NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := newTestRegistry(store, clk)

	issued, err := registry.Issue(context.Background(), IssueRequest{
		OriginalURL: "https://vendor.example/deal",
		Type:        models.CategoryFlight,
		ExpiresIn:   time.Hour,
		MaxClicks:   100,
	})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Still resolvable just before expiry.
	clk.Advance(59 * time.Minute)
	if _, err := registry.Resolve(context.Background(), issued.Token, Visitor{}); err != nil {
		t.Fatalf("resolve before expiry failed: %v", err)
	}

	clk.Advance(2 * time.Minute)
	_, err = registry.Resolve(context.Background(), issued.Token, Visitor{})
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}

	// Expiry wins regardless of remaining quota.
	clk.Advance(24 * time.Hour)
	_, err = registry.Resolve(context.Background(), issued.Token, Visitor{})
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired after further advance, got %v", err)
	}
}

func TestIssueWithoutExpiryOrLimit(t *testing.T) {
	store := newMemStore()
	registry := newTestRegistry(store, clock.NewRealClock())

	issued, err := registry.Issue(context.Background(), IssueRequest{
		OriginalURL: "https://vendor.example/evergreen",
		Type:        models.CategoryESIM,
	})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if issued.ExpiresAt != nil {
		t.Error("expected no expiry")
	}

	for i := 0; i < 25; i++ {
		if _, err := registry.Resolve(context.Background(), issued.Token, Visitor{}); err != nil {
			t.Fatalf("resolution %d failed: %v", i+1, err)
		}
	}
}

func TestIssueInvalidCategory(t *testing.T) {
	registry := newTestRegistry(newMemStore(), clock.NewRealClock())

	_, err := registry.Issue(context.Background(), IssueRequest{
		OriginalURL: "https://vendor.example/x",
		Type:        models.Category("cruise"),
	})
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestIssueRetriesOnTokenCollision(t *testing.T) {
	store := newMemStore()
	store.failNext = 2
	registry := newTestRegistry(store, clock.NewRealClock())

	issued, err := registry.Issue(context.Background(), IssueRequest{
		OriginalURL: "https://vendor.example/x",
		Type:        models.CategoryCar,
	})
	if err != nil {
		t.Fatalf("Issue should have retried past collisions: %v", err)
	}
	if issued.Token == "" {
		t.Fatal("expected token after retry")
	}
}

func TestIssueStoreFailure(t *testing.T) {
	store := newMemStore()
	store.createErr = errors.New("connection refused")
	registry := newTestRegistry(store, clock.NewRealClock())

	_, err := registry.Issue(context.Background(), IssueRequest{
		OriginalURL: "https://vendor.example/x",
		Type:        models.CategoryHotel,
	})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestConcurrentResolutionNeverOvershootsQuota(t *testing.T) {
	store := newMemStore()
	registry := newTestRegistry(store, clock.NewRealClock())

	const limit = 5
	const callers = 40

	issued, err := registry.Issue(context.Background(), IssueRequest{
		OriginalURL: "https://vendor.example/hot-deal",
		Type:        models.CategoryFlight,
		ExpiresIn:   time.Hour,
		MaxClicks:   limit,
	})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := registry.Resolve(context.Background(), issued.Token, Visitor{})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, limited int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrLimitReached):
			limited++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != limit {
		t.Errorf("successes = %d, want %d", successes, limit)
	}
	if limited != callers-limit {
		t.Errorf("limited = %d, want %d", limited, callers-limit)
	}
	if got := store.clicks(issued.Token); got != limit {
		t.Errorf("final clicks = %d, want %d", got, limit)
	}
}
