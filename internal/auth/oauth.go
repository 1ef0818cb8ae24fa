package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"talkx/internal/config"
	"talkx/internal/models"
	"talkx/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Provider exchanges an OAuth authorization code for a normalized identity.
type Provider interface {
	Name() models.OAuthProvider
	AuthCodeURL(state string) string
	Identity(ctx context.Context, code string) (service.OAuthIdentity, error)
}

// Providers builds the configured OAuth providers. A provider with no client
// ID is simply absent from the result.
func Providers(cfg *config.Config) map[models.OAuthProvider]Provider {
	providers := make(map[models.OAuthProvider]Provider)
	if cfg.GoogleClientID != "" {
		providers[models.OAuthProviderGoogle] = &googleProvider{
			config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  callbackURL(cfg, models.OAuthProviderGoogle),
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint:     google.Endpoint,
			},
		}
	}
	if cfg.GitHubClientID != "" {
		providers[models.OAuthProviderGitHub] = &githubProvider{
			config: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  callbackURL(cfg, models.OAuthProviderGitHub),
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
		}
	}
	return providers
}

func callbackURL(cfg *config.Config, provider models.OAuthProvider) string {
	return fmt.Sprintf("%s/api/auth/%s/callback", cfg.ServerURL, provider)
}

type googleProvider struct {
	config *oauth2.Config
}

func (p *googleProvider) Name() models.OAuthProvider {
	return models.OAuthProviderGoogle
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *googleProvider) Identity(ctx context.Context, code string) (service.OAuthIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return service.OAuthIdentity{}, fmt.Errorf("google code exchange: %w", err)
	}

	var profile struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchJSON(ctx, p.config.Client(ctx, token), "https://www.googleapis.com/oauth2/v2/userinfo", &profile); err != nil {
		return service.OAuthIdentity{}, err
	}
	if profile.ID == "" {
		return service.OAuthIdentity{}, fmt.Errorf("google userinfo response missing id")
	}

	return service.OAuthIdentity{
		Provider:  models.OAuthProviderGoogle,
		OAuthID:   profile.ID,
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.Picture,
	}, nil
}

type githubProvider struct {
	config *oauth2.Config
}

func (p *githubProvider) Name() models.OAuthProvider {
	return models.OAuthProviderGitHub
}

func (p *githubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *githubProvider) Identity(ctx context.Context, code string) (service.OAuthIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return service.OAuthIdentity{}, fmt.Errorf("github code exchange: %w", err)
	}
	client := p.config.Client(ctx, token)

	var profile struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := fetchJSON(ctx, client, "https://api.github.com/user", &profile); err != nil {
		return service.OAuthIdentity{}, err
	}
	if profile.ID == 0 {
		return service.OAuthIdentity{}, fmt.Errorf("github user response missing id")
	}

	email := profile.Email
	if email == "" {
		// GitHub omits the email from /user when it is private.
		email, err = p.primaryEmail(ctx, client)
		if err != nil {
			return service.OAuthIdentity{}, err
		}
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	return service.OAuthIdentity{
		Provider:  models.OAuthProviderGitHub,
		OAuthID:   strconv.FormatInt(profile.ID, 10),
		Email:     email,
		Name:      name,
		AvatarURL: profile.AvatarURL,
	}, nil
}

func (p *githubProvider) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := fetchJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", fmt.Errorf("github account has no email")
}

func fetchJSON(ctx context.Context, client *http.Client, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
