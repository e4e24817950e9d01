package types

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type App struct {
	Config Config
	// Zap Logger
	Logger *zap.Logger
	// Server represents the HTTP server instance used to handle incoming client requests and manage HTTP routes.
	Server *http.Server
}

// Start serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Start(ctx context.Context) {
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}()
	a.Logger.Info("Server running", zap.String("url", a.Config.ListenURL()), zap.String("addr", a.Server.Addr))
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("Failed to shut down server", zap.Error(err))
	}
	a.Logger.Info("Server stopped")
	_ = a.Logger.Sync()
}
