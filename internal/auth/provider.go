package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"dealboard/internal/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ProviderGoogle is the provider name stored on users created through Google.
const ProviderGoogle = "google"

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// IdentityProvider is the federated login collaborator.
type IdentityProvider interface {
	Name() string
	// AuthCodeURL is where the browser is sent to sign in.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the signed-in identity.
	Exchange(ctx context.Context, code string) (repository.Identity, error)
}

// GoogleProvider signs users in with Google OAuth2.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider configures the Google OAuth2 client.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) Name() string { return ProviderGoogle }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (repository.Identity, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return repository.Identity{}, fmt.Errorf("exchanging authorization code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return repository.Identity{}, err
	}
	resp, err := p.config.Client(ctx, tok).Do(req)
	if err != nil {
		return repository.Identity{}, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return repository.Identity{}, fmt.Errorf("fetching userinfo: unexpected status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return repository.Identity{}, fmt.Errorf("decoding userinfo: %w", err)
	}
	if info.Sub == "" {
		return repository.Identity{}, fmt.Errorf("userinfo response has no subject")
	}

	return repository.Identity{
		Provider: ProviderGoogle,
		Subject:  info.Sub,
		Name:     info.Name,
		Email:    info.Email,
		Image:    info.Picture,
	}, nil
}
