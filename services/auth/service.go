// Package auth ties the token codec, the refresh-token store and the user
// directory into the two flows that mint tokens: external-login completion
// and refresh-token exchange.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/scribe-app/scribe/services/jwt"
	"github.com/scribe-app/scribe/services/logging"
	"github.com/scribe-app/scribe/services/refreshtoken"
	"github.com/scribe-app/scribe/services/user"
	"go.uber.org/zap"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUnknownUser         = errors.New("unknown user")
)

type Service struct {
	jwtSvc     *jwt.Service
	refreshSvc *refreshtoken.Service
	userSvc    *user.Service
	logger     *logging.Service
}

func NewService(jwtSvc *jwt.Service, refreshSvc *refreshtoken.Service, userSvc *user.Service, logger *logging.Service) *Service {
	return &Service{
		jwtSvc:     jwtSvc,
		refreshSvc: refreshSvc,
		userSvc:    userSvc,
		logger:     logger,
	}
}

// LoginResult carries everything the callback handler needs to finish the
// flow: the resolved user plus both freshly issued tokens.
type LoginResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
}

// CompleteLogin runs the post-authentication half of the external login:
// resolve-or-create the user, issue and persist the refresh token, then issue
// the access token. A failure at user resolution aborts the whole flow; no
// token is issued or stored. Later failures surface to the caller, who must
// restart the login.
func (s *Service) CompleteLogin(ctx context.Context, email, name string) (*LoginResult, error) {
	u, err := s.userSvc.Upsert(ctx, email, name)
	if err != nil {
		return nil, fmt.Errorf("user resolution failed: %w", err)
	}

	refreshToken, err := s.jwtSvc.GenerateRefreshToken(u.Email, u.ID)
	if err != nil {
		return nil, err
	}

	if err := s.refreshSvc.Upsert(ctx, u.ID, refreshToken); err != nil {
		return nil, err
	}

	accessToken, err := s.jwtSvc.GenerateAccessToken(u.Email, u.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("external login completed", zap.Int64("user_id", u.ID))

	return &LoginResult{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// CreateNewAccessToken exchanges a previously issued refresh token for a new
// access token. The presented token goes through the full parse (signature
// and expiry enforced), then must match the stored row for its user byte for
// byte. The stored refresh token is not rotated here; it is replaced only on
// the next login.
func (s *Service) CreateNewAccessToken(ctx context.Context, presented string) (string, error) {
	claims, err := s.jwtSvc.DecodeClaims(presented)
	if err != nil {
		s.logger.Warn("refresh exchange rejected", zap.Error(err))
		return "", ErrInvalidRefreshToken
	}

	stored, err := s.refreshSvc.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, refreshtoken.ErrNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}

	if stored.Token != presented {
		s.logger.Warn("refresh exchange rejected - presented token superseded",
			zap.Int64("user_id", claims.UserID))
		return "", ErrInvalidRefreshToken
	}

	u, err := s.userSvc.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrUnknownUser
		}
		return "", err
	}

	return s.jwtSvc.GenerateAccessToken(u.Email, u.ID)
}
