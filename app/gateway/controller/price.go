package controller

import (
	"net/http"

	"github.com/caet-labs/tokengate/pkg/pricing"
)

// HandlePrice returns the price of ?id= in ?vs=. It always answers 200; when
// CoinGecko has nothing usable the body carries a fallback price tagged by source.
func (c *Controller) HandlePrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := pricing.NewQuery(q.Get("id"), q.Get("vs"))

	c.writeJSON(w, http.StatusOK, c.Prices.Lookup(r.Context(), query))
}
