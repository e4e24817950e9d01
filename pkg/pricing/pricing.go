package pricing

import (
	"context"
	"errors"
	"strings"

	"github.com/caet-labs/tokengate/pkg/coingecko"
	"github.com/caet-labs/tokengate/pkg/utils"
	"go.uber.org/zap"
)

const (
	DefaultID = "binancecoin"
	DefaultVS = "usd"
)

// Source tags where a Result price came from.
type Source string

const (
	SourceCoinGecko     Source = "coingecko"
	SourceFallback      Source = "fallback"
	SourceFallbackError Source = "fallback-error"
)

// Query is a normalized price lookup.
type Query struct {
	ID string
	VS string
}

// NewQuery lower-cases id and vs and applies defaults for empty values.
func NewQuery(id, vs string) Query {
	return Query{
		ID: strings.ToLower(utils.Default(id, DefaultID)),
		VS: strings.ToLower(utils.Default(vs, DefaultVS)),
	}
}

// Result is the price payload served to clients. Change24h is always a number.
type Result struct {
	Source    Source  `json:"source"`
	ID        string  `json:"id"`
	VS        string  `json:"vs"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
}

// Quoter fetches a live quote. coingecko.ErrNoData marks a reachable upstream without data.
type Quoter interface {
	SimplePrice(ctx context.Context, id, vs string) (coingecko.Quote, error)
}

// Service resolves prices and never fails: any upstream problem degrades to a fallback price.
type Service struct {
	quoter   Quoter
	fallback *Fallback
	logger   *zap.Logger
}

func NewService(quoter Quoter, fallback *Fallback, logger *zap.Logger) *Service {
	if fallback == nil {
		fallback = NewFallback(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{quoter: quoter, fallback: fallback, logger: logger}
}

func (s *Service) Lookup(ctx context.Context, q Query) Result {
	quote, err := s.quoter.SimplePrice(ctx, q.ID, q.VS)
	if err == nil {
		return Result{
			Source:    SourceCoinGecko,
			ID:        q.ID,
			VS:        q.VS,
			Price:     quote.Price,
			Change24h: quote.Change24h,
		}
	}

	source := SourceFallbackError
	if errors.Is(err, coingecko.ErrNoData) {
		source = SourceFallback
	}

	res := Result{
		Source: source,
		ID:     q.ID,
		VS:     q.VS,
		Price:  s.fallback.Price(),
	}
	s.logger.Warn("Serving fallback price",
		zap.String("id", q.ID),
		zap.String("vs", q.VS),
		zap.String("source", string(source)),
		zap.Float64("price", res.Price),
		zap.Error(err))
	return res
}
