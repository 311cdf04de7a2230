package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/ratelimit"

	"github.com/AlexZinkM/solwallet/internal/errs"
	"github.com/AlexZinkM/solwallet/internal/log"
)

const defaultTimeout = 30 * time.Second

// request is a JSON-RPC 2.0 request. The id is always 1.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// RPCError is the error object of a JSON-RPC response.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Transport posts JSON-RPC requests to one endpoint. A response carrying a
// retry-after header of one second or more is retried after that delay.
type Transport struct {
	endpoint   string
	http       *http.Client
	limiter    ratelimit.Limiter
	maxRetries int
	sleep      func(ctx context.Context, d time.Duration) error
}

// TransportOption customizes a Transport.
type TransportOption func(*Transport)

// WithHTTPClient replaces the default http client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *Transport) { t.http = c }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *Transport) {
		if d > 0 {
			t.http = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimit paces requests to rps per second. Zero means unlimited.
func WithRateLimit(rps int) TransportOption {
	return func(t *Transport) {
		if rps > 0 {
			t.limiter = ratelimit.New(rps)
		}
	}
}

// WithMaxRateLimitRetries caps how many retry-after waits a single call may
// take. Zero keeps retrying for as long as the server asks.
func WithMaxRateLimitRetries(n int) TransportOption {
	return func(t *Transport) { t.maxRetries = n }
}

// NewTransport creates a transport for endpoint.
func NewTransport(endpoint string, opts ...TransportOption) *Transport {
	t := &Transport{
		endpoint: endpoint,
		http:     &http.Client{Timeout: defaultTimeout},
		limiter:  ratelimit.NewUnlimited(),
		sleep:    Sleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Endpoint returns the URL requests are posted to.
func (t *Transport) Endpoint() string {
	return t.endpoint
}

// Call invokes method and decodes the result into result, which may be nil.
// RPC-level errors are returned as errs.KindRPC carrying the server's code;
// network failures and non-200 responses without a usable retry-after are
// errs.KindTransport.
func (t *Transport) Call(ctx context.Context, method string, params []any, result any) error {
	op := "rpc." + method
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(request{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return errs.Wrap(errs.KindUnknown, op, fmt.Errorf("failed to marshal request: %w", err))
	}

	for retries := 0; ; retries++ {
		t.limiter.Take()

		status, retryAfter, data, err := t.post(ctx, body)
		if err != nil {
			return errs.Wrap(errs.KindTransport, op, err)
		}

		if status != http.StatusOK {
			if retryAfter < 1 {
				return &errs.Error{Kind: errs.KindTransport, Op: op, Code: status,
					Msg: fmt.Sprintf("unexpected status %d", status)}
			}
			if t.maxRetries > 0 && retries >= t.maxRetries {
				return &errs.Error{Kind: errs.KindTransport, Op: op, Code: status,
					Msg: fmt.Sprintf("still rate limited after %d retries", retries)}
			}
			log.RPC.Debug().
				Str("endpoint", t.endpoint).
				Str("method", method).
				Int("status", status).
				Int("retry_after", retryAfter).
				Msg("rate limited, waiting")
			if err := t.sleep(ctx, time.Duration(retryAfter)*time.Second); err != nil {
				return errs.Wrap(errs.KindTransport, op, err)
			}
			continue
		}

		return decodeResponse(op, data, result)
	}
}

func (t *Transport) post(ctx context.Context, body []byte) (status, retryAfter int, data []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, parseRetryAfter(resp.Header.Get("Retry-After")), data, nil
}

// parseRetryAfter reads the delay in whole seconds. Missing or malformed
// values count as zero.
func parseRetryAfter(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func decodeResponse(op string, data []byte, result any) error {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return errs.Wrap(errs.KindTransport, op, fmt.Errorf("malformed response: %w", err))
	}
	if resp.Error != nil {
		return &errs.Error{Kind: errs.KindRPC, Op: op, Code: resp.Error.Code, Err: resp.Error}
	}
	if len(resp.Result) == 0 {
		return errs.New(errs.KindTransport, op, "malformed response: no result")
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return errs.Wrap(errs.KindTransport, op, fmt.Errorf("malformed result: %w", err))
	}
	return nil
}
