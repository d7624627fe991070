package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"inventera/internal/domain"
	"inventera/internal/repository"
)

// GoogleEndpoint holds Google's OAuth2 endpoints.
var GoogleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

const (
	googleRevokeURL = "https://oauth2.googleapis.com/revoke"
	tasksScope      = "https://www.googleapis.com/auth/tasks"
)

var (
	// ErrNotConfigured is returned when no client credentials are stored.
	ErrNotConfigured = errors.New("oauth client credentials not configured")
	// ErrNoToken is returned when no token is stored.
	ErrNoToken = errors.New("no access token stored")
)

// Google manages OAuth client credentials and tokens for the Google Tasks
// integration. Credentials and tokens live in the settings store, so the
// manager carries no state of its own between calls.
type Google struct {
	settings    repository.SettingsRepository
	RedirectURL string

	// Overridable in tests.
	Endpoint   oauth2.Endpoint
	RevokeURL  string
	HTTPClient *http.Client
}

// NewGoogle creates a credential manager backed by the given settings store.
// redirectURL is the callback URL registered with the provider.
func NewGoogle(settings repository.SettingsRepository, redirectURL string) *Google {
	return &Google{
		settings:    settings,
		RedirectURL: redirectURL,
		Endpoint:    GoogleEndpoint,
		RevokeURL:   googleRevokeURL,
		HTTPClient:  http.DefaultClient,
	}
}

func (g *Google) config() (*oauth2.Config, error) {
	clientID, err := g.settings.Get(domain.SettingClientID)
	if err != nil {
		return nil, err
	}
	clientSecret, err := g.settings.Get(domain.SettingClientSecret)
	if err != nil {
		return nil, err
	}
	if clientID == "" || clientSecret == "" {
		return nil, ErrNotConfigured
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     g.Endpoint,
		RedirectURL:  g.RedirectURL,
		Scopes:       []string{tasksScope},
	}, nil
}

// Configured reports whether client credentials are stored.
func (g *Google) Configured() bool {
	_, err := g.config()
	return err == nil
}

// SaveCredentials stores the OAuth client id and secret.
func (g *Google) SaveCredentials(clientID, clientSecret string) error {
	if err := g.settings.Set(domain.SettingClientID, clientID); err != nil {
		return err
	}
	return g.settings.Set(domain.SettingClientSecret, clientSecret)
}

// RemoveCredentials clears the client credentials and any stored tokens.
func (g *Google) RemoveCredentials() error {
	for _, key := range []string{
		domain.SettingClientID,
		domain.SettingClientSecret,
		domain.SettingAccessToken,
		domain.SettingRefreshToken,
	} {
		if err := g.settings.Clear(key); err != nil {
			return err
		}
	}
	return nil
}

// AuthURL builds the authorization URL for the consent screen. Offline access
// plus a forced consent prompt, so Google returns a refresh token.
func (g *Google) AuthURL(state string) (string, error) {
	cfg, err := g.config()
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// Exchange trades an authorization code for tokens and persists them.
func (g *Google) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.HTTPClient)
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	if err := g.saveToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// AccessToken returns the stored access token, or ErrNoToken.
func (g *Google) AccessToken() (string, error) {
	token, err := g.settings.Get(domain.SettingAccessToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// HasToken reports whether an access token is stored.
func (g *Google) HasToken() bool {
	_, err := g.AccessToken()
	return err == nil
}

// Refresh obtains a new access token using the stored refresh token and
// persists it. The refresh token is preserved when the provider omits one
// from the response.
func (g *Google) Refresh(ctx context.Context) (string, error) {
	cfg, err := g.config()
	if err != nil {
		return "", err
	}
	refreshToken, err := g.settings.Get(domain.SettingRefreshToken)
	if err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", errors.New("no refresh token available")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.HTTPClient)
	token, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("refreshing token: %w", err)
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	if err := g.saveToken(token); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// Revoke revokes the stored access token at the provider and clears both
// stored tokens.
func (g *Google) Revoke(ctx context.Context) error {
	accessToken, err := g.AccessToken()
	if err != nil {
		return err
	}

	form := url.Values{"token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.RevokeURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoking token: unexpected status %s", resp.Status)
	}

	if err := g.settings.Clear(domain.SettingAccessToken); err != nil {
		return err
	}
	return g.settings.Clear(domain.SettingRefreshToken)
}

func (g *Google) saveToken(token *oauth2.Token) error {
	if err := g.settings.Set(domain.SettingAccessToken, token.AccessToken); err != nil {
		return err
	}
	if token.RefreshToken != "" {
		return g.settings.Set(domain.SettingRefreshToken, token.RefreshToken)
	}
	return nil
}
