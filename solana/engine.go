package solana

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/AlexZinkM/solwallet/internal/client"
	"github.com/AlexZinkM/solwallet/internal/config"
	"github.com/AlexZinkM/solwallet/internal/errs"
)

// PriceSource quotes SOL in a fiat currency.
type PriceSource interface {
	GetSOLPrice(ctx context.Context, currency string) (string, error)
}

// Options configure an Engine. Unset fields fall back to DefaultOptions,
// except the lookup delays, where zero means no delay.
type Options struct {
	// Endpoints are queried by Balance when the caller names none.
	Endpoints []string

	Timeout             time.Duration
	RateLimit           int
	MaxRateLimitRetries int
	HTTPClient          *http.Client

	RetryAttempts           int
	ProgramLookupDelay      time.Duration
	TokenAccountLookupDelay time.Duration
	RentLookupDelay         time.Duration

	ConfirmInterval   time.Duration
	ConfirmTimeout    time.Duration
	ConfirmCommitment rpc.CommitmentType

	// PriceCurrency enables fiat pricing in Balance when non-empty.
	PriceCurrency string
	Prices        PriceSource
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Endpoints:               []string{config.Clusters["mainnet-beta"]},
		Timeout:                 30 * time.Second,
		RetryAttempts:           5,
		ProgramLookupDelay:      10 * time.Second,
		TokenAccountLookupDelay: 3 * time.Second,
		RentLookupDelay:         10 * time.Second,
		ConfirmInterval:         500 * time.Millisecond,
		ConfirmTimeout:          30 * time.Second,
		ConfirmCommitment:       rpc.CommitmentFinalized,
	}
}

// OptionsFromConfig translates the environment configuration.
func OptionsFromConfig(c *config.Config) Options {
	return Options{
		Endpoints:               c.Endpoints(),
		Timeout:                 c.RPCTimeout,
		RateLimit:               c.RPCRateLimit,
		MaxRateLimitRetries:     c.RPCMaxRateLimitRetries,
		RetryAttempts:           c.RetryAttempts,
		ProgramLookupDelay:      c.ProgramLookupDelay,
		TokenAccountLookupDelay: c.TokenAccountLookupDelay,
		RentLookupDelay:         c.RentLookupDelay,
		ConfirmInterval:         c.ConfirmInterval,
		ConfirmTimeout:          c.ConfirmTimeout,
		ConfirmCommitment:       rpc.CommitmentType(c.ConfirmCommitment),
		PriceCurrency:           c.PriceCurrency,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.Endpoints) == 0 {
		o.Endpoints = d.Endpoints
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.RetryAttempts < 1 {
		o.RetryAttempts = d.RetryAttempts
	}
	if o.ProgramLookupDelay < 0 {
		o.ProgramLookupDelay = d.ProgramLookupDelay
	}
	if o.TokenAccountLookupDelay < 0 {
		o.TokenAccountLookupDelay = d.TokenAccountLookupDelay
	}
	if o.RentLookupDelay < 0 {
		o.RentLookupDelay = d.RentLookupDelay
	}
	if o.ConfirmInterval <= 0 {
		o.ConfirmInterval = d.ConfirmInterval
	}
	if o.ConfirmTimeout <= 0 {
		o.ConfirmTimeout = d.ConfirmTimeout
	}
	if o.ConfirmCommitment == "" {
		o.ConfirmCommitment = d.ConfirmCommitment
	}
	if o.PriceCurrency != "" && o.Prices == nil {
		o.Prices = client.NewCoinGeckoClient()
	}
	return o
}

// Engine runs the networked wallet operations. It holds one RPC client per
// endpoint so request pacing is shared by every operation on that endpoint;
// nothing else is shared between calls.
type Engine struct {
	opts Options

	mu      sync.Mutex
	clients map[string]*client.SolanaClient
}

// New creates an Engine.
func New(opts Options) *Engine {
	return &Engine{
		opts:    opts.withDefaults(),
		clients: map[string]*client.SolanaClient{},
	}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) client(endpoint string) *client.SolanaClient {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.clients[endpoint]; ok {
		return c
	}
	opts := []client.TransportOption{
		client.WithTimeout(e.opts.Timeout),
		client.WithRateLimit(e.opts.RateLimit),
		client.WithMaxRateLimitRetries(e.opts.MaxRateLimitRetries),
	}
	if e.opts.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(e.opts.HTTPClient))
	}
	c := client.NewSolanaClient(endpoint, opts...)
	e.clients[endpoint] = c
	return c
}

// endpoint resolves a cluster name or URL. An empty network selects the
// first configured endpoint.
func (e *Engine) endpoint(op, network string) (string, error) {
	if strings.TrimSpace(network) == "" {
		return e.opts.Endpoints[0], nil
	}
	url := config.ResolveEndpoint(network)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", errs.Validation(op, "unknown network %q", network)
	}
	return url, nil
}

func (e *Engine) retry(delay time.Duration) client.RetryPolicy {
	return client.RetryPolicy{Attempts: e.opts.RetryAttempts, Delay: delay}
}
