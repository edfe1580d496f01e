package spotify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"golang.org/x/oauth2"
)

type mockIssuer struct {
	mu    sync.Mutex
	calls int
	token *oauth2.Token
	err   error
	delay time.Duration
}

func (m *mockIssuer) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	copied := *m.token
	return &copied, nil
}

func (m *mockIssuer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockCredStore struct {
	mu    sync.Mutex
	saved []*oauth2.Token
}

func (m *mockCredStore) Save(token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, token)
	return nil
}

func (m *mockCredStore) Load() (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return nil, nil
	}
	return m.saved[len(m.saved)-1], nil
}

func TestTokenManager_Authorize(t *testing.T) {
	t.Run("attaches bearer token", func(t *testing.T) {
		manager := NewTokenManager(&oauth2.Token{AccessToken: "abc123"}, nil, nil, shared.NewLogger(io.Discard))

		req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/me", nil)
		if err := manager.Authorize(req); err != nil {
			t.Fatalf("Authorize() error = %v", err)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer abc123" {
			t.Errorf("Authorization header = %q, want %q", got, "Bearer abc123")
		}
	})

	t.Run("fails without a credential", func(t *testing.T) {
		manager := NewTokenManager(nil, nil, nil, shared.NewLogger(io.Discard))

		req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/me", nil)
		if err := manager.Authorize(req); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("Authorize() error = %v, want ErrNotAuthenticated", err)
		}
	})
}

func TestTokenManager_Refresh(t *testing.T) {
	t.Run("replaces the credential and persists it", func(t *testing.T) {
		issuer := &mockIssuer{token: &oauth2.Token{AccessToken: "new", RefreshToken: "rotated"}}
		store := &mockCredStore{}
		manager := NewTokenManager(&oauth2.Token{AccessToken: "old", RefreshToken: "refresh1"}, issuer, store, shared.NewLogger(io.Discard))

		if err := manager.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}

		token := manager.Token()
		if token.AccessToken != "new" {
			t.Errorf("access token = %q, want %q", token.AccessToken, "new")
		}
		if token.RefreshToken != "rotated" {
			t.Errorf("refresh token = %q, want %q", token.RefreshToken, "rotated")
		}
		if len(store.saved) != 1 {
			t.Errorf("persisted %d credentials, want 1", len(store.saved))
		}
	})

	t.Run("keeps the old refresh token when the issuer omits one", func(t *testing.T) {
		issuer := &mockIssuer{token: &oauth2.Token{AccessToken: "new"}}
		manager := NewTokenManager(&oauth2.Token{AccessToken: "old", RefreshToken: "refresh1"}, issuer, nil, shared.NewLogger(io.Discard))

		if err := manager.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if token := manager.Token(); token.RefreshToken != "refresh1" {
			t.Errorf("refresh token = %q, want the retained %q", token.RefreshToken, "refresh1")
		}
	})

	t.Run("fails without a refresh token", func(t *testing.T) {
		issuer := &mockIssuer{token: &oauth2.Token{AccessToken: "new"}}
		manager := NewTokenManager(&oauth2.Token{AccessToken: "old"}, issuer, nil, shared.NewLogger(io.Discard))

		if err := manager.Refresh(context.Background()); !errors.Is(err, shared.ErrNoRefreshToken) {
			t.Errorf("Refresh() error = %v, want ErrNoRefreshToken", err)
		}
		if issuer.callCount() != 0 {
			t.Errorf("issuer calls = %d, want 0", issuer.callCount())
		}
	})

	t.Run("wraps issuer failures", func(t *testing.T) {
		issuer := &mockIssuer{err: errors.New("endpoint unavailable")}
		manager := NewTokenManager(&oauth2.Token{AccessToken: "old", RefreshToken: "refresh1"}, issuer, nil, shared.NewLogger(io.Discard))

		if err := manager.Refresh(context.Background()); !errors.Is(err, shared.ErrRefreshFailed) {
			t.Errorf("Refresh() error = %v, want ErrRefreshFailed", err)
		}
		if token := manager.Token(); token.AccessToken != "old" {
			t.Errorf("access token = %q, should be unchanged after a failed refresh", token.AccessToken)
		}
	})

	t.Run("concurrent callers share one refresh", func(t *testing.T) {
		issuer := &mockIssuer{
			token: &oauth2.Token{AccessToken: "new", RefreshToken: "rotated"},
			delay: 50 * time.Millisecond,
		}
		manager := NewTokenManager(&oauth2.Token{AccessToken: "old", RefreshToken: "refresh1"}, issuer, nil, shared.NewLogger(io.Discard))

		var wg sync.WaitGroup
		errs := make([]error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = manager.Refresh(context.Background())
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				t.Errorf("Refresh() %d error = %v", i, err)
			}
		}
		if issuer.callCount() != 1 {
			t.Errorf("issuer calls = %d, want 1", issuer.callCount())
		}
	})

	t.Run("a completed refresh clears the slot for the next one", func(t *testing.T) {
		issuer := &mockIssuer{err: errors.New("endpoint unavailable")}
		manager := NewTokenManager(&oauth2.Token{AccessToken: "old", RefreshToken: "refresh1"}, issuer, nil, shared.NewLogger(io.Discard))

		manager.Refresh(context.Background())
		manager.Refresh(context.Background())

		if issuer.callCount() != 2 {
			t.Errorf("issuer calls = %d, want 2 (sequential refreshes are not coalesced)", issuer.callCount())
		}
	})
}
