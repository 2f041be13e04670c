package api

import (
	jwtmw "github.com/scribe-app/scribe/middleware/jwt"
	"github.com/scribe-app/scribe/server"
	"github.com/scribe-app/scribe/services/jwt"
	"github.com/scribe-app/scribe/services/logging"
	"go.uber.org/fx"
)

// RegisterRoutes wires the route policy: the authentication filter runs on
// every request, but only the article group requires a principal.
func RegisterRoutes(srv *server.Server, logger *logging.Service, jwtSvc *jwt.Service,
	tokenH *TokenHandler, oauthH *OAuthHandler, userH *UserHandler, articleH *ArticleHandler) {

	srv.Use(logging.RequestLogger(logger))
	srv.Use(jwtmw.Middleware(jwtSvc))

	e := srv.Echo()

	e.POST("/api/token", tokenH.CreateAccessToken)
	e.POST("/api/users", userH.SignUp)

	e.GET("/auth/login", oauthH.Login)
	e.GET("/auth/callback", oauthH.Callback)

	articles := e.Group("/api/articles", jwtmw.RequireAuth())
	articles.GET("", articleH.List)
	articles.GET("/:id", articleH.Get)
	articles.POST("", articleH.Create)
	articles.PUT("/:id", articleH.Update)
	articles.DELETE("/:id", articleH.Delete)
}

var Options = fx.Options(
	fx.Provide(NewTokenHandler),
	fx.Provide(NewOAuthHandler),
	fx.Provide(NewUserHandler),
	fx.Provide(NewArticleHandler),
	fx.Invoke(RegisterRoutes),
)
