package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"docgate/internal/domain"

	kratos "github.com/ory/kratos-client-go"
)

// KratosGateway implements domain.SessionValidator, domain.SessionRevoker,
// and domain.IdentityAdmin against an Ory Kratos deployment.
type KratosGateway struct {
	client       *kratos.APIClient
	adminBaseURL string
	httpClient   *http.Client
}

// NewKratosGateway creates a new Kratos gateway with tuned HTTP transport.
func NewKratosGateway(baseURL, adminBaseURL string, timeout time.Duration) *KratosGateway {
	configuration := kratos.NewConfiguration()
	configuration.Servers = []kratos.ServerConfiguration{
		{URL: baseURL},
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	configuration.HTTPClient = httpClient

	return &KratosGateway{
		client:       kratos.NewAPIClient(configuration),
		adminBaseURL: adminBaseURL,
		httpClient:   httpClient,
	}
}

// ValidateSession validates a session cookie and returns the identity.
func (g *KratosGateway) ValidateSession(ctx context.Context, cookie string) (*domain.Identity, error) {
	if cookie == "" {
		return nil, domain.ErrSessionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	session, resp, err := g.client.FrontendAPI.ToSession(ctx).Cookie(cookie).Execute()
	if err != nil {
		if resp != nil {
			if resp.StatusCode == http.StatusUnauthorized {
				return nil, domain.ErrAuthFailed
			}
			return nil, fmt.Errorf("%w: kratos returned status %d", domain.ErrKratosUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrKratosUnavailable, err)
	}

	if session.Active != nil && !*session.Active {
		return nil, domain.ErrSessionInactive
	}

	if session.Identity == nil {
		return nil, domain.ErrMissingIdentity
	}

	email := ""
	displayName := ""
	if traits, ok := session.Identity.Traits.(map[string]interface{}); ok {
		if emailVal, ok := traits["email"].(string); ok {
			email = emailVal
		}
		if nameVal, ok := traits["name"].(string); ok {
			displayName = nameVal
		}
	}

	var createdAt time.Time
	if session.Identity.CreatedAt != nil {
		createdAt = *session.Identity.CreatedAt
	}

	return &domain.Identity{
		UserID:      session.Identity.Id,
		Email:       email,
		DisplayName: displayName,
		SessionID:   session.Id,
		CreatedAt:   createdAt,
	}, nil
}

// SignOut revokes the session identified by cookieValue. Resolves the
// provider-side session ID through whoami first, then disables it via the
// Admin API. A session the provider no longer knows is treated as already
// signed out.
func (g *KratosGateway) SignOut(ctx context.Context, cookieValue string) error {
	if g.adminBaseURL == "" {
		return domain.ErrAdminNotConfigured
	}
	if cookieValue == "" {
		return domain.ErrSessionNotFound
	}

	fullCookie := fmt.Sprintf("ory_kratos_session=%s", cookieValue)
	identity, err := g.ValidateSession(ctx, fullCookie)
	if err != nil {
		if isAlreadySignedOut(err) {
			return nil
		}
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/admin/sessions/%s", g.adminBaseURL, identity.SessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrKratosUnavailable, err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrKratosUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return nil // already gone
	default:
		return fmt.Errorf("%w: admin API returned status %d", domain.ErrKratosUnavailable, resp.StatusCode)
	}
}

// adminIdentity represents a Kratos identity from Admin API.
type adminIdentity struct {
	ID string `json:"id"`
}

// GetFirstIdentityID fetches the first identity ID from Kratos Admin API.
func (g *KratosGateway) GetFirstIdentityID(ctx context.Context) (string, error) {
	if g.adminBaseURL == "" {
		return "", domain.ErrAdminNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/admin/identities?page_size=1", g.adminBaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrKratosUnavailable, err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrKratosUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: admin API returned status %d", domain.ErrKratosUnavailable, resp.StatusCode)
	}

	var identities []adminIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identities); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrKratosUnavailable, err)
	}

	if len(identities) == 0 {
		return "", domain.ErrNoIdentitiesFound
	}

	return identities[0].ID, nil
}

func isAlreadySignedOut(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrSessionExpired) ||
		errors.Is(err, domain.ErrSessionInactive) ||
		errors.Is(err, domain.ErrAuthFailed)
}
