package spotify

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// CredentialStore persists the current credential across process restarts.
// Load returns nil with no error when no credential has been stored yet.
type CredentialStore interface {
	Save(token *oauth2.Token) error
	Load() (*oauth2.Token, error)
}

// TokenIssuer exchanges a refresh token for a new access token. Whether the
// refresh token itself rotates is implementation-defined; an empty
// RefreshToken on the returned token means it did not.
type TokenIssuer interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// OAuthIssuer implements [TokenIssuer] against an OAuth2 token endpoint.
type OAuthIssuer struct {
	Config *oauth2.Config
}

// NewOAuthIssuer creates an issuer for the Spotify accounts service.
func NewOAuthIssuer(clientID, clientSecret, redirectURI string) *OAuthIssuer {
	return &OAuthIssuer{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes: []string{
				"user-follow-read",
				"user-follow-modify",
				"playlist-read-private",
				"playlist-modify-public",
				"playlist-modify-private",
			},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
	}
}

func (i *OAuthIssuer) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	src := i.Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("token endpoint refresh failed: %w", err)
	}
	return token, nil
}

// TokenManager owns the credential pair and attaches it to every outgoing
// call. A 401 triggers at most one in-flight refresh regardless of how many
// concurrent calls observe it; all callers awaiting the refresh see the same
// resulting credential or the same failure.
type TokenManager struct {
	mu     sync.RWMutex
	token  *oauth2.Token
	issuer TokenIssuer
	store  CredentialStore
	group  singleflight.Group
	logger *log.Logger
}

// NewTokenManager creates a manager holding the given credential. The token
// may be nil; operations then fail with [shared.ErrNotAuthenticated] until a
// credential is set.
func NewTokenManager(token *oauth2.Token, issuer TokenIssuer, store CredentialStore, logger *log.Logger) *TokenManager {
	return &TokenManager{
		token:  token,
		issuer: issuer,
		store:  store,
		logger: logger,
	}
}

// Authorize attaches the current access token to the request.
func (m *TokenManager) Authorize(req *http.Request) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == nil || m.token.AccessToken == "" {
		return shared.ErrNotAuthenticated
	}
	req.Header.Set("Authorization", "Bearer "+m.token.AccessToken)
	return nil
}

// Token returns a copy of the current credential, or nil if none is held.
func (m *TokenManager) Token() *oauth2.Token {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == nil {
		return nil
	}
	copied := *m.token
	return &copied
}

// Refresh exchanges the refresh token for a new credential. Concurrent
// callers share a single in-flight refresh; the slot clears on completion,
// success or failure, so a later 401 can trigger a fresh one. A successful
// refresh replaces the stored credential and persists it.
func (m *TokenManager) Refresh(ctx context.Context) error {
	_, err, _ := m.group.Do("refresh", func() (any, error) {
		m.mu.RLock()
		var refreshToken string
		if m.token != nil {
			refreshToken = m.token.RefreshToken
		}
		m.mu.RUnlock()

		if refreshToken == "" {
			return nil, shared.ErrNoRefreshToken
		}

		token, err := m.issuer.Refresh(ctx, refreshToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
		}
		if token.RefreshToken == "" {
			token.RefreshToken = refreshToken
		}

		m.mu.Lock()
		m.token = token
		m.mu.Unlock()

		if m.store != nil {
			if err := m.store.Save(token); err != nil {
				m.logger.Warn("failed to persist refreshed credential", "err", err)
			}
		}
		return nil, nil
	})
	return err
}
