package controller

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"os"

	"github.com/caet-labs/tokengate/app/gateway/types"
	"github.com/caet-labs/tokengate/pkg/bscscan"
	"github.com/caet-labs/tokengate/pkg/coingecko"
	"github.com/caet-labs/tokengate/pkg/pricing"
	"github.com/caet-labs/tokengate/pkg/upstream"
	"github.com/gorilla/mux"
)

// PriceLookup resolves a price query. It never fails.
type PriceLookup interface {
	Lookup(ctx context.Context, q pricing.Query) pricing.Result
}

// TransferSource returns the most recent token transfers for an address.
type TransferSource interface {
	TokenTransfers(ctx context.Context, address, startBlock string) ([]json.RawMessage, error)
}

type Controller struct {
	App       *types.App
	Prices    PriceLookup
	Transfers TransferSource
	// Public holds the bundled front-end; index.html is the SPA entry document.
	Public fs.FS
}

// NewController returns a new controller wired to the live upstream APIs.
func NewController(app *types.App) *Controller {
	fetcher := upstream.NewHTTPWithOpts(upstream.Opts{Timeout: app.Config.UpstreamTimeout})
	quoter := coingecko.NewClient(fetcher, app.Config.CoinGeckoAPIURL)

	return &Controller{
		App:       app,
		Prices:    pricing.NewService(quoter, pricing.NewFallback(nil), app.Logger),
		Transfers: bscscan.NewClient(fetcher, app.Config.BscAPIURL, app.Config.BscAPIKey),
		Public:    os.DirFS(app.Config.PublicDir),
	}
}

// WithCORS is a middleware that adds CORS headers to the response.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodHead+", "+http.MethodOptions)

		// Fast-path the preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(c.LogRequests)

	r.HandleFunc("/api/health", c.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/price", c.HandlePrice).Methods(http.MethodGet)
	r.HandleFunc("/api/txs", c.HandleTxs).Methods(http.MethodGet)

	// Everything else is the front-end; unknown paths get the entry document.
	r.PathPrefix("/").HandlerFunc(c.HandleSPA).Methods(http.MethodGet, http.MethodHead)

	return r, nil
}

// writeJSON writes data as a JSON response with the given status.
func (c *Controller) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func (c *Controller) writeError(w http.ResponseWriter, statusCode int, message string) {
	c.writeJSON(w, statusCode, map[string]string{"error": message})
}
