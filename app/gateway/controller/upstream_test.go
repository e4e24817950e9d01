package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caet-labs/tokengate/app/gateway/types"
	"github.com/caet-labs/tokengate/pkg/bscscan"
	"github.com/caet-labs/tokengate/pkg/coingecko"
	"github.com/caet-labs/tokengate/pkg/pricing"
	"github.com/caet-labs/tokengate/pkg/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

// newWiredController builds a controller on the real clients with every outbound
// request answered by handler.
func newWiredController(t *testing.T, handler http.Handler) (*Controller, *int) {
	calls := 0
	httpClient := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			return rec.Result(), nil
		}),
	}
	fetcher := upstream.NewHTTPWithOpts(upstream.Opts{HTTPClient: httpClient})

	app := &types.App{Logger: zaptest.NewLogger(t)}
	quoter := coingecko.NewClient(fetcher, "http://coingecko.mock/api/v3")

	return &Controller{
		App:       app,
		Prices:    pricing.NewService(quoter, pricing.NewFallback(fixedRand(0.2)), app.Logger),
		Transfers: bscscan.NewClient(fetcher, "http://bscscan.mock/api", "test-key"),
		Public:    testPublic(),
	}, &calls
}

func explorerPayload(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"blockNumber":"%d","hash":"0x%x","value":"1000000000000000000"}`, 5000-i, i)
	}
	return `{"status":"1","message":"OK","result":[` + strings.Join(items, ",") + `]}`
}

func TestTxsCapsUpstreamRecords(t *testing.T) {
	var gotQuery map[string][]string
	c, calls := newWiredController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(explorerPayload(120)))
	}))

	rec := serve(t, c, http.MethodGet, "/api/txs?address=0xABC")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)

	var got []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 50)
	for i, tx := range got {
		assert.Equal(t, fmt.Sprintf("%d", 5000-i), tx["blockNumber"])
	}

	assert.Equal(t, []string{"0xABC"}, gotQuery["address"])
	assert.Equal(t, []string{"tokentx"}, gotQuery["action"])
	assert.Equal(t, []string{"test-key"}, gotQuery["apikey"])
	assert.Equal(t, []string{"0"}, gotQuery["startblock"])
}

func TestTxsMalformedUpstream(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "no result field", status: http.StatusOK, body: `{"status":"1","message":"OK"}`},
		{name: "not json", status: http.StatusOK, body: `<html>gateway timeout</html>`},
		{name: "upstream 502", status: http.StatusBadGateway, body: `bad gateway`},
		{name: "error string", status: http.StatusOK, body: `{"status":"0","message":"NOTOK","result":"Invalid API Key"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newWiredController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			rec := serve(t, c, http.MethodGet, "/api/txs?address=0xABC")
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, 1, *calls)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestTxsMissingAddressMakesNoUpstreamCall(t *testing.T) {
	c, calls := newWiredController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called")
	}))

	rec := serve(t, c, http.MethodGet, "/api/txs?address=%20")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, *calls)
}

func TestPriceThroughCoinGecko(t *testing.T) {
	var gotPath, gotQuery string
	c, calls := newWiredController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		_, _ = w.Write([]byte(`{"binancecoin":{"usd":612.345678,"usd_24h_change":-3.21}}`))
	}))

	rec := serve(t, c, http.MethodGet, "/api/price?id=BinanceCoin&vs=USD")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, "/api/v3/simple/price", gotPath)
	assert.Equal(t, "ids=binancecoin&vs_currencies=usd&include_24hr_change=true", gotQuery)
	assert.JSONEq(t,
		`{"source":"coingecko","id":"binancecoin","vs":"usd","price":612.345678,"change24h":-3.21}`,
		rec.Body.String())
}

func TestPriceFallbacksThroughCoinGecko(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "pair missing", status: http.StatusOK, body: `{}`, want: "fallback"},
		{name: "currency missing", status: http.StatusOK, body: `{"caet":{"usd":1}}`, want: "fallback"},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"status":{"error_code":429}}`, want: "fallback-error"},
		{name: "garbage", status: http.StatusOK, body: `not json`, want: "fallback-error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newWiredController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			rec := serve(t, c, http.MethodGet, "/api/price?id=caet&vs=thb")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t,
				fmt.Sprintf(`{"source":%q,"id":"caet","vs":"thb","price":2.6,"change24h":0}`, tt.want),
				rec.Body.String())
		})
	}
}
