package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Cluster URLs accepted by name wherever an endpoint is expected.
var Clusters = map[string]string{
	"mainnet-beta": "https://api.mainnet-beta.solana.com",
	"testnet":      "https://api.testnet.solana.com",
	"devnet":       "https://api.devnet.solana.com",
}

// Config contains all configuration parameters for the application.
type Config struct {
	Port           string   `envconfig:"PORT" default:"8080"`
	SolanaRPCURL   string   `envconfig:"SOLANA_RPC_URL"`
	SolanaNetworks []string `envconfig:"SOLANA_NETWORKS" default:"mainnet-beta,testnet,devnet"`

	RPCTimeout              time.Duration `envconfig:"RPC_TIMEOUT" default:"30s"`
	RPCRateLimit            int           `envconfig:"RPC_RATE_LIMIT" default:"0"`
	RPCMaxRateLimitRetries  int           `envconfig:"RPC_MAX_RATE_LIMIT_RETRIES" default:"0"`
	RetryAttempts           int           `envconfig:"RETRY_ATTEMPTS" default:"5"`
	ProgramLookupDelay      time.Duration `envconfig:"PROGRAM_LOOKUP_DELAY" default:"10s"`
	TokenAccountLookupDelay time.Duration `envconfig:"TOKEN_ACCOUNT_LOOKUP_DELAY" default:"3s"`
	RentLookupDelay         time.Duration `envconfig:"RENT_LOOKUP_DELAY" default:"10s"`
	ConfirmInterval         time.Duration `envconfig:"CONFIRM_INTERVAL" default:"500ms"`
	ConfirmTimeout          time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"30s"`
	ConfirmCommitment       string        `envconfig:"CONFIRM_COMMITMENT" default:"finalized"`

	WalletStore     string `envconfig:"WALLET_STORE" default:"badger"`
	WalletStorePath string `envconfig:"WALLET_STORE_PATH" default:"./wallets"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `envconfig:"LOG_JSON" default:"false"`
	LogFile  string `envconfig:"LOG_FILE"`

	// PriceCurrency enables fiat pricing of balances when set, e.g. "usd".
	PriceCurrency string `envconfig:"PRICE_CURRENCY"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads and validates configuration without touching the global.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// Validate checks value ranges envconfig cannot express.
func (c *Config) Validate() error {
	switch c.ConfirmCommitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("CONFIRM_COMMITMENT must be processed, confirmed or finalized, got %q", c.ConfirmCommitment)
	}
	if c.RetryAttempts < 1 {
		return errors.New("RETRY_ATTEMPTS must be at least 1")
	}
	if c.RPCRateLimit < 0 || c.RPCMaxRateLimitRetries < 0 {
		return errors.New("RPC_RATE_LIMIT and RPC_MAX_RATE_LIMIT_RETRIES must not be negative")
	}
	if c.ConfirmInterval <= 0 || c.ConfirmTimeout <= 0 {
		return errors.New("CONFIRM_INTERVAL and CONFIRM_TIMEOUT must be positive")
	}
	if len(c.Endpoints()) == 0 {
		return errors.New("SOLANA_NETWORKS must name at least one endpoint")
	}
	return nil
}

// ResolveEndpoint maps a cluster name to its URL. Anything else is returned
// trimmed, as a URL.
func ResolveEndpoint(network string) string {
	network = strings.TrimSpace(network)
	if url, ok := Clusters[network]; ok {
		return url
	}
	return network
}

// Endpoints returns the configured endpoints as URLs. SolanaRPCURL, when
// set, comes first and is the default for operations naming no network;
// SolanaNetworks follow with blanks and duplicates skipped.
func (c *Config) Endpoints() []string {
	out := make([]string, 0, len(c.SolanaNetworks)+1)
	seen := make(map[string]bool, len(c.SolanaNetworks)+1)
	add := func(network string) {
		if u := ResolveEndpoint(network); u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	add(c.SolanaRPCURL)
	for _, n := range c.SolanaNetworks {
		add(n)
	}
	return out
}

// PromptForSecret prompts for a secret (mnemonic or private key) in the
// terminal without echoing it.
func PromptForSecret(label string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal: run interactively to enter the secret")
	}
	fmt.Fprintf(os.Stderr, "%s: ", label)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	defer clear(raw)

	secret := strings.TrimSpace(string(raw))
	if secret == "" {
		return "", errors.New("secret cannot be empty")
	}
	return secret, nil
}
