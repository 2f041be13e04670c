package oauth2flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/scribe-app/scribe/config"
	"github.com/scribe-app/scribe/services/logging"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var ErrIdentityIncomplete = errors.New("external identity has no email")

// Identity is what the login flow needs from the provider's userinfo
// response: the attributes the user directory is keyed and named by.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Service struct {
	oauth       *oauth2.Config
	userInfoURL string
	logger      *logging.Service
}

func NewService(cfg *config.Config, logger *logging.Service) *Service {
	return &Service{
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth2.ClientID,
			ClientSecret: cfg.OAuth2.ClientSecret,
			RedirectURL:  cfg.OAuth2.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
		logger:      logger,
	}
}

// NewServiceWithProvider targets a non-default provider; used against local
// stand-ins for the provider endpoints.
func NewServiceWithProvider(cfg *config.Config, logger *logging.Service, endpoint oauth2.Endpoint, userInfoURL string) *Service {
	svc := NewService(cfg, logger)
	svc.oauth.Endpoint = endpoint
	svc.userInfoURL = userInfoURL
	return svc
}

// AuthCodeURL builds the provider redirect for the given anti-forgery state.
func (s *Service) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// Exchange trades the callback code for provider tokens. The request context
// bounds the network call; retry policy is the provider client's concern.
func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("authorization code exchange failed", zap.Error(err))
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	return token, nil
}

// FetchIdentity resolves the authenticated user's email and display name from
// the provider's userinfo endpoint.
func (s *Service) FetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	client := s.oauth.Client(ctx, token)

	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: status %d", resp.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("userinfo decode failed: %w", err)
	}

	if identity.Email == "" {
		return nil, ErrIdentityIncomplete
	}

	return &identity, nil
}
