package gateway

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/caet-labs/tokengate/app/gateway/controller"
	"github.com/caet-labs/tokengate/app/gateway/types"
)

// NewServer builds the router and attaches the http.Server to app.
func NewServer(app *types.App) error {
	ctler := controller.NewController(app)
	router, err := ctler.NewRouter()
	if err != nil {
		return err
	}

	app.Server = &http.Server{
		Addr:              app.Config.Addr,
		Handler:           controller.WithCORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.Logger.Info("Starting server", zap.String("addr", app.Config.Addr))

	return nil
}
