// Package app assembles the fx graph for the full application.
package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scribe-app/scribe/api"
	"github.com/scribe-app/scribe/config"
	"github.com/scribe-app/scribe/database"
	"github.com/scribe-app/scribe/server"
	"github.com/scribe-app/scribe/services/article"
	"github.com/scribe-app/scribe/services/auth"
	"github.com/scribe-app/scribe/services/jwt"
	"github.com/scribe-app/scribe/services/logging"
	"github.com/scribe-app/scribe/services/oauth2flow"
	"github.com/scribe-app/scribe/services/refreshtoken"
	"github.com/scribe-app/scribe/services/user"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type App struct {
	fx     *fx.App
	logger *logging.Service
}

// New builds the application. A nil cfg loads configuration from the
// environment.
func New(cfg *config.Config) *App {
	a := &App{}

	a.fx = fx.New(
		config.NewProvider(cfg),
		fx.Supply(database.WithModels(
			&user.User{},
			&refreshtoken.RefreshToken{},
			&article.Article{},
		)),
		logging.Options,
		database.Module,
		jwt.Options,
		refreshtoken.Options,
		user.Options,
		oauth2flow.Options,
		auth.Options,
		article.Options,
		server.Options,
		api.Options,
		fx.Populate(&a.logger),
		fx.WithLogger(func(svc *logging.Service) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: svc.Logger()}
		}),
	)

	return a
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

func (a *App) Stop(ctx context.Context) error {
	return a.fx.Stop(ctx)
}

// Run starts the app and blocks until an interrupt or termination signal.
func (a *App) Run() {
	if err := a.Start(context.Background()); err != nil {
		log.Fatalf("failed to start application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	a.logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.Stop(ctx); err != nil {
		a.logger.Error("failed to stop gracefully", zap.Error(err))
	}

	_ = a.logger.Sync()
}
