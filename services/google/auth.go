package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opencoder/opencoder-api/model"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

// ErrAuthRequired means the user has no usable Google credential. Callers
// surface this distinctly from not-found so the client can re-run OAuth.
var ErrAuthRequired = errors.New("google authentication required")

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// UserInfo represents the profile returned by the Google userinfo endpoint
type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// AuthConfig holds the OAuth client settings
type AuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// AuthService is the credential provider for all Google API access. It
// exchanges authorization codes for tokens, refreshes expired tokens and
// builds authenticated Classroom/Drive clients.
type AuthService struct {
	config *oauth2.Config
}

// NewAuthService creates a new Google OAuth credential provider
func NewAuthService(cfg AuthConfig) *AuthService {
	return &AuthService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     googleoauth.Endpoint,
		},
	}
}

// AuthCodeURL returns the Google consent page URL for the given state
func (a *AuthService) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange trades an authorization code for an access/refresh token pair
func (a *AuthService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

// UserInfo retrieves the Google profile for an access token
func (a *AuthService) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info: %s", string(body))
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	return &info, nil
}

// TokenForUser returns a usable OAuth token for the user, refreshing and
// persisting it first when the stored token has expired. An absent access
// token yields ErrAuthRequired rather than an upstream error.
func (a *AuthService) TokenForUser(ctx context.Context, db *gorm.DB, user *model.User) (*oauth2.Token, error) {
	if !user.HasGoogleToken() {
		return nil, ErrAuthRequired
	}

	tok := &oauth2.Token{
		AccessToken:  user.GoogleAccessToken,
		RefreshToken: user.GoogleRefreshToken,
	}
	if user.TokenExpiry != nil {
		tok.Expiry = *user.TokenExpiry
	}

	if tok.Valid() {
		return tok, nil
	}

	if user.GoogleRefreshToken == "" {
		return nil, ErrAuthRequired
	}

	// Expired with a refresh token on hand: refresh eagerly and persist the
	// new pair so the next request starts from a fresh token.
	fresh, err := a.config.TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh google token: %w", err)
	}

	user.GoogleAccessToken = fresh.AccessToken
	if fresh.RefreshToken != "" {
		user.GoogleRefreshToken = fresh.RefreshToken
	}
	expiry := fresh.Expiry
	user.TokenExpiry = &expiry

	if err := db.Model(user).Updates(map[string]interface{}{
		"google_access_token":  user.GoogleAccessToken,
		"google_refresh_token": user.GoogleRefreshToken,
		"token_expiry":         user.TokenExpiry,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	return fresh, nil
}

// ExpiryFromToken converts an oauth2 expiry into a nullable timestamp
func ExpiryFromToken(tok *oauth2.Token) *time.Time {
	if tok.Expiry.IsZero() {
		return nil
	}
	expiry := tok.Expiry
	return &expiry
}

// TokenSource builds a refreshing token source for API clients
func (a *AuthService) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return a.config.TokenSource(ctx, tok)
}
