package bscscan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/caet-labs/tokengate/pkg/upstream"
	"github.com/caet-labs/tokengate/pkg/utils"
)

const (
	// DefaultBaseURL is the BSC testnet explorer. Mainnet lives at https://api.bscscan.com/api.
	DefaultBaseURL = "https://api-testnet.bscscan.com/api"
	DefaultAPIKey  = "demo"

	// MaxRecords caps how many transfers are returned per lookup.
	MaxRecords = 50

	endBlock = "99999999"
)

// ErrInvalidResponse is returned when the explorer envelope carries no usable result.
var ErrInvalidResponse = errors.New("invalid response")

// APIError is an explorer envelope whose result is an error string instead of a list.
//
//	{"status":"0","message":"NOTOK","result":"Invalid API Key"}
type APIError struct {
	Status  string
	Message string
	Result  string
}

func (e *APIError) Error() string {
	return e.Result
}

// envelope is the common {status, message, result} response shape.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// Client queries a BscScan compatible explorer API.
type Client struct {
	fetcher upstream.Fetcher
	baseURL string
	apiKey  string
}

func NewClient(fetcher upstream.Fetcher, baseURL, apiKey string) *Client {
	return &Client{
		fetcher: fetcher,
		baseURL: utils.TrimURL(utils.Default(baseURL, DefaultBaseURL)),
		apiKey:  utils.Default(apiKey, DefaultAPIKey),
	}
}

// TokenTxURL builds the account/tokentx query, newest first.
func (c *Client) TokenTxURL(address, startBlock string) string {
	qs := url.Values{}
	qs.Set("module", "account")
	qs.Set("action", "tokentx")
	qs.Set("address", address)
	qs.Set("startblock", utils.Default(startBlock, "0"))
	qs.Set("endblock", endBlock)
	qs.Set("sort", "desc")
	qs.Set("apikey", c.apiKey)
	return c.baseURL + "?" + qs.Encode()
}

// TokenTransfers returns at most MaxRecords token transfers for address, in the order the explorer sent them.
// Records are passed through untouched.
func (c *Client) TokenTransfers(ctx context.Context, address, startBlock string) ([]json.RawMessage, error) {
	var env envelope
	if err := c.fetcher.FetchJSON(ctx, c.TokenTxURL(address, startBlock), &env); err != nil {
		return nil, err
	}

	result := bytes.TrimSpace(env.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, ErrInvalidResponse
	}

	switch result[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(result, &records); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		if len(records) > MaxRecords {
			records = records[:MaxRecords]
		}
		return records, nil
	case '"':
		var msg string
		if err := json.Unmarshal(result, &msg); err != nil || msg == "" {
			return nil, ErrInvalidResponse
		}
		return nil, &APIError{Status: env.Status, Message: env.Message, Result: msg}
	default:
		return nil, ErrInvalidResponse
	}
}
