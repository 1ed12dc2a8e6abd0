// Package ledger talks to the external account-model ledger network: token
// balance lookups, deterministic payout-address derivation, and custodial
// transfer submission. All network calls walk an ordered endpoint list and
// try each endpoint at most once per call.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mr-tron/base58"
	"github.com/tidwall/gjson"

	"tokenlounge/domain"
	"tokenlounge/errors"
	"tokenlounge/observability"
)

type Client struct {
	endpoints []string
	http      *http.Client
	log       *slog.Logger
	stats     *observability.Stats
}

// NewClient builds an RPC client over an ordered endpoint list. The timeout
// bounds each individual attempt, not the whole failover pass.
func NewClient(endpoints []string, timeout time.Duration, log *slog.Logger, stats *observability.Stats) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("at least one RPC endpoint is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoints: endpoints,
		http:      &http.Client{Timeout: timeout},
		log:       log,
		stats:     stats,
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

// call performs one JSON-RPC call with ordered failover: connectivity and
// protocol failures move on to the next endpoint, the call fails only when
// the list is exhausted.
func (c *Client) call(ctx context.Context, method string, params []any) (gjson.Result, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for i, endpoint := range c.endpoints {
		result, err := c.post(ctx, endpoint, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i < len(c.endpoints)-1 {
			if c.stats != nil {
				c.stats.GatewayFailover()
			}
			c.log.Warn("RPC endpoint failed, trying next",
				"method", method, "endpoint", endpoint, "error", err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return gjson.Result{}, fmt.Errorf("%w: %s: %v", errors.ErrGatewayUnavailable, method, lastErr)
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	parsed := gjson.ParseBytes(raw)
	if rpcErr := parsed.Get("error"); rpcErr.Exists() {
		return gjson.Result{}, fmt.Errorf("rpc error %d: %s",
			rpcErr.Get("code").Int(), rpcErr.Get("message").String())
	}
	result := parsed.Get("result")
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("malformed response: missing result")
	}
	return result, nil
}

// BalanceOf sums the parsed ui-amounts over every token account the owner
// holds for the mint. No accounts means a balance of zero, not an error.
func (c *Client) BalanceOf(ctx context.Context, owner, mint domain.Wallet) (float64, error) {
	result, err := c.call(ctx, "getTokenAccountsByOwner", []any{
		owner.String(),
		map[string]string{"mint": mint.String()},
		map[string]string{"encoding": "jsonParsed"},
	})
	if err != nil {
		return 0, err
	}

	var balance float64
	for _, account := range result.Get("value").Array() {
		balance += account.Get("account.data.parsed.info.tokenAmount.uiAmount").Float()
	}
	return balance, nil
}

// LatestBlockhash fetches the recent blockhash required to build a transaction.
func (c *Client) LatestBlockhash(ctx context.Context) ([32]byte, error) {
	var blockhash [32]byte
	result, err := c.call(ctx, "getLatestBlockhash", []any{
		map[string]string{"commitment": "finalized"},
	})
	if err != nil {
		return blockhash, err
	}
	raw, err := base58.Decode(result.Get("value.blockhash").String())
	if err != nil || len(raw) != len(blockhash) {
		return blockhash, fmt.Errorf("malformed blockhash in response: %v", err)
	}
	copy(blockhash[:], raw)
	return blockhash, nil
}

// SendTransaction submits a base64-serialized signed transaction and
// returns its signature identifier.
func (c *Client) SendTransaction(ctx context.Context, txBase64 string) (string, error) {
	result, err := c.call(ctx, "sendTransaction", []any{
		txBase64,
		map[string]string{"encoding": "base64"},
	})
	if err != nil {
		return "", err
	}
	sig := result.String()
	if sig == "" {
		return "", fmt.Errorf("empty signature in response")
	}
	return sig, nil
}

// AwaitConfirmation polls the signature status until the network reports the
// transaction confirmed or finalized, or ctx expires. An on-chain execution
// error fails immediately.
func (c *Client) AwaitConfirmation(ctx context.Context, signature string, poll time.Duration) error {
	if poll <= 0 {
		poll = 500 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation of %s: %w", signature, ctx.Err())
		case <-ticker.C:
			result, err := c.call(ctx, "getSignatureStatuses", []any{[]string{signature}})
			if err != nil {
				return err
			}
			status := result.Get("value.0")
			if !status.Exists() || status.Type == gjson.Null {
				continue // not yet observed by the network
			}
			if txErr := status.Get("err"); txErr.Exists() && txErr.Type != gjson.Null {
				return fmt.Errorf("transaction %s failed on chain: %s", signature, txErr.Raw)
			}
			switch status.Get("confirmationStatus").String() {
			case "confirmed", "finalized":
				return nil
			}
		}
	}
}
