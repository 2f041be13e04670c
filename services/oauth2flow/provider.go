package oauth2flow

import (
	"github.com/scribe-app/scribe/config"
	"github.com/scribe-app/scribe/services/jwt"
	"go.uber.org/fx"
)

// The state cookie is authenticated with the same derived key that signs
// tokens; both are immutable for the process lifetime.
func ProvideStateRepository(cfg *config.Config, jwtSvc *jwt.Service) *StateRepository {
	return NewStateRepository(jwtSvc.SigningKey(), cfg.OAuth2.StateExpiry)
}

var Options = fx.Options(
	fx.Provide(NewService),
	fx.Provide(ProvideStateRepository),
)
