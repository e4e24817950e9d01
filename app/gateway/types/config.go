package types

import (
	"fmt"
	"time"

	"github.com/caet-labs/tokengate/pkg/bscscan"
	"github.com/caet-labs/tokengate/pkg/coingecko"
	"github.com/caet-labs/tokengate/pkg/utils"
)

// Config is read once at startup and shared read-only by every handler.
type Config struct {
	Port int
	// Addr is <ip>:<port> to bind to a specific interface or :<port> to bind to all interfaces.
	Addr string

	BscAPIKey       string
	BscAPIURL       string
	CoinGeckoAPIURL string
	PublicDir       string
	UpstreamTimeout time.Duration
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() Config {
	port := utils.EnvInt("PORT", 3000)
	return Config{
		Port:            port,
		Addr:            utils.Env("ADDR", fmt.Sprintf(":%d", port)),
		BscAPIKey:       utils.Env("BSC_API_KEY", bscscan.DefaultAPIKey),
		BscAPIURL:       utils.Env("BSC_API_URL", bscscan.DefaultBaseURL),
		CoinGeckoAPIURL: utils.Env("COINGECKO_API_URL", coingecko.DefaultBaseURL),
		PublicDir:       utils.Env("PUBLIC_DIR", "public"),
		UpstreamTimeout: utils.EnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
	}
}

// ListenURL is the address announced in the startup log.
func (c Config) ListenURL() string {
	return fmt.Sprintf("http://localhost:%d", c.Port)
}
