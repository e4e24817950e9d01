package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/caet-labs/tokengate/pkg/upstream"
	"github.com/caet-labs/tokengate/pkg/utils"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// ErrNoData means the upstream answered but had no price for the requested pair.
var ErrNoData = errors.New("coingecko: no price for pair")

// Quote is a single simple-price entry.
type Quote struct {
	Price     float64
	Change24h float64
}

// Client talks to the CoinGecko simple price endpoint.
type Client struct {
	fetcher upstream.Fetcher
	baseURL string
}

func NewClient(fetcher upstream.Fetcher, baseURL string) *Client {
	return &Client{
		fetcher: fetcher,
		baseURL: utils.TrimURL(utils.Default(baseURL, DefaultBaseURL)),
	}
}

// SimplePriceURL builds the lookup URL for id priced in vs, 24h change included.
func (c *Client) SimplePriceURL(id, vs string) string {
	return fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s&include_24hr_change=true",
		c.baseURL, url.QueryEscape(id), url.QueryEscape(vs))
}

// SimplePrice returns ErrNoData when the payload lacks the id or the vs price;
// every other error comes from the request itself.
func (c *Client) SimplePrice(ctx context.Context, id, vs string) (Quote, error) {
	var payload map[string]json.RawMessage
	if err := c.fetcher.FetchJSON(ctx, c.SimplePriceURL(id, vs), &payload); err != nil {
		return Quote{}, fmt.Errorf("coingecko simple price: %w", err)
	}

	raw, ok := payload[id]
	if !ok {
		return Quote{}, ErrNoData
	}

	// Values are nullable; an entry that is not an object of numbers carries no usable price.
	var fields map[string]*float64
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Quote{}, ErrNoData
	}

	price := fields[vs]
	if price == nil {
		return Quote{}, ErrNoData
	}

	q := Quote{Price: *price}
	if change := fields[vs+"_24h_change"]; change != nil {
		q.Change24h = *change
	}
	return q, nil
}
