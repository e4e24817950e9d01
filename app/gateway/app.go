package gateway

import (
	"errors"
	"io/fs"

	"github.com/caet-labs/tokengate/app/gateway/types"
	"github.com/caet-labs/tokengate/pkg/bscscan"
	"github.com/caet-labs/tokengate/pkg/logging"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Initialize initializes the application.
func Initialize() *types.App {
	// .env is optional and never overrides variables already set in the environment
	envErr := godotenv.Load()

	logger, err := logging.New()
	if err != nil {
		// no logger to report through yet
		panic(err)
	}

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("Unable to load .env file", zap.Error(envErr))
	}

	cfg := types.LoadConfig()
	logger.Info("Configuration loaded",
		zap.String("addr", cfg.Addr),
		zap.String("bsc_api_url", cfg.BscAPIURL),
		zap.Bool("bsc_api_key_set", cfg.BscAPIKey != bscscan.DefaultAPIKey),
		zap.String("coingecko_api_url", cfg.CoinGeckoAPIURL),
		zap.String("public_dir", cfg.PublicDir),
		zap.Duration("upstream_timeout", cfg.UpstreamTimeout))

	return &types.App{
		Config: cfg,
		Logger: logger,
	}
}
