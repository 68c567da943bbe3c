package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmy123222/arbintent/internal/engine"
	"github.com/Emmy123222/arbintent/internal/server/handler"
	"github.com/Emmy123222/arbintent/internal/settlement"
)

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	eng := engine.New(engine.Config{Owner: "operator.near"},
		engine.WithLogger(logger),
		engine.WithSettlement(settlement.NewNop(logger)),
	)

	srv := New(Config{Port: 0, APIKey: apiKey}, Handlers{
		Health:     handler.NewHealthHandler(nil, logger),
		Intents:    handler.NewIntentHandler(eng, logger),
		Executions: handler.NewExecutionHandler(eng, logger),
		Users:      handler.NewUserHandler(eng, logger),
		Info:       handler.NewInfoHandler(eng, logger),
	}, nil, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, account string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	if account != "" {
		req.Header.Set("X-Account-ID", account)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

const oneUnit = "1000000000000000000000000"

func createIntent(t *testing.T, ts *httptest.Server, account, pair, threshold string) string {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodPost, "/api/intents", account, map[string]string{
		"token_pair":           pair,
		"min_profit_threshold": threshold,
		"deposit":              oneUnit,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %v", body)
	return body["id"].(string)
}

func TestCreateIntent(t *testing.T) {
	ts := newTestServer(t, "")

	id := createIntent(t, ts, "alice.near", "ETH/USDC", "1.5")
	assert.Equal(t, "1", id)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/intents/1", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice.near", body["owner"])
	assert.Equal(t, "ETH/USDC", body["token_pair"])
	assert.Equal(t, "active", body["status"])
}

func TestCreateIntentFailures(t *testing.T) {
	ts := newTestServer(t, "")

	// No caller identity.
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/intents", "", map[string]string{
		"token_pair": "ETH/USDC", "min_profit_threshold": "1.0", "deposit": oneUnit,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Deposit below one whole unit.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/intents", "alice.near", map[string]string{
		"token_pair": "ETH/USDC", "min_profit_threshold": "1.0", "deposit": "999",
	})
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	// Deposit not a plain minor-unit integer.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/intents", "alice.near", map[string]string{
		"token_pair": "ETH/USDC", "min_profit_threshold": "1.0", "deposit": "1.5",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Threshold not parseable.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/intents", "alice.near", map[string]string{
		"token_pair": "ETH/USDC", "min_profit_threshold": "abc", "deposit": oneUnit,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetIntentNotFound(t *testing.T) {
	ts := newTestServer(t, "")
	resp, _ := doJSON(t, ts, http.MethodGet, "/api/intents/99", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPauseResumeOwnership(t *testing.T) {
	ts := newTestServer(t, "")
	id := createIntent(t, ts, "alice.near", "ETH/USDC", "1.0")

	resp, _ := doJSON(t, ts, http.MethodPost, "/api/intents/"+id+"/pause", "mallory.near", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/intents/"+id+"/pause", "alice.near", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paused", body["status"])

	resp, body = doJSON(t, ts, http.MethodPost, "/api/intents/"+id+"/resume", "alice.near", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "active", body["status"])
}

func TestExecuteFlow(t *testing.T) {
	ts := newTestServer(t, "")
	id := createIntent(t, ts, "alice.near", "ETH/USDC", "1.0")

	resp, body := doJSON(t, ts, http.MethodPost, "/api/intents/"+id+"/execute", "alice.near", map[string]string{
		"price_a": "3000", "price_b": "2950",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %v", body)
	assert.Equal(t, "executed", body["status"])
	assert.NotEmpty(t, body["settlement_id"])

	// The execution record is queryable.
	resp, body = doJSON(t, ts, http.MethodGet, "/api/executions/1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", body["intent_id"])
	assert.InDelta(t, 50.0, body["price_diff"].(float64), 1e-9)
	assert.InDelta(t, 40.0, body["profit"].(float64), 1e-9)

	// Profit accrues in minor units.
	resp, body = doJSON(t, ts, http.MethodGet, "/api/users/alice.near/profit", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "40000000000000000000000000", body["profit"])

	// The intent is now executed and cannot run again.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/intents/"+id+"/execute", "alice.near", map[string]string{
		"price_a": "3000", "price_b": "2950",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestExecuteBelowThreshold(t *testing.T) {
	ts := newTestServer(t, "")
	id := createIntent(t, ts, "alice.near", "ETH/USDC", "5.0")

	resp, _ := doJSON(t, ts, http.MethodPost, "/api/intents/"+id+"/execute", "alice.near", map[string]string{
		"price_a": "100", "price_b": "99",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodGet, "/api/executions/1", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserListings(t *testing.T) {
	ts := newTestServer(t, "")
	createIntent(t, ts, "alice.near", "ETH/USDC", "1.0")
	createIntent(t, ts, "alice.near", "NEAR/USDT", "2.0")
	createIntent(t, ts, "bob.near", "BTC/USDT", "0.5")

	resp, body := doJSON(t, ts, http.MethodGet, "/api/users/alice.near/intents", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["intents"], 2)

	// Unknown accounts get empty lists, not errors.
	resp, body = doJSON(t, ts, http.MethodGet, "/api/users/nobody.near/intents", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["intents"])

	resp, body = doJSON(t, ts, http.MethodGet, "/api/users/nobody.near/executions", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["executions"])

	resp, body = doJSON(t, ts, http.MethodGet, "/api/users/nobody.near/profit", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", body["profit"])
}

func TestSignatureEndpoints(t *testing.T) {
	ts := newTestServer(t, "")
	id := createIntent(t, ts, "alice.near", "ETH/USDC", "1.0")
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/intents/"+id+"/execute", "alice.near", map[string]string{
		"price_a": "3000", "price_b": "2950",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Absent signature: verify is false, read is 404.
	resp, body := doJSON(t, ts, http.MethodGet, "/api/executions/1/signature/verify", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["verified"])

	resp, _ = doJSON(t, ts, http.MethodGet, "/api/executions/1/signature", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/executions/1/signature", "", map[string]any{
		"signature":  "0xdeadbeef",
		"public_key": "0x0102",
		"chain_id":   137,
		"nonce":      7,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, ts, http.MethodGet, "/api/executions/1/signature", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0xdeadbeef", body["signature"])
	assert.Equal(t, float64(137), body["chain_id"])

	resp, body = doJSON(t, ts, http.MethodGet, "/api/executions/1/signature/verify", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["verified"])

	// Empty signature bytes are rejected.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/executions/1/signature", "", map[string]any{
		"signature": "0x", "public_key": "0x01", "chain_id": 1, "nonce": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInfoEndpoint(t *testing.T) {
	ts := newTestServer(t, "")
	createIntent(t, ts, "alice.near", "ETH/USDC", "1.0")

	resp, body := doJSON(t, ts, http.MethodGet, "/api/info", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ArbitrageAI Cross-Chain Agent", body["name"])
	assert.Equal(t, "1.0.0", body["version"])
	assert.Equal(t, "operator.near", body["owner"])
	assert.Equal(t, float64(1), body["total_intents"])
	assert.Equal(t, float64(0), body["total_executions"])
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, "")
	resp, body := doJSON(t, ts, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t, "secret-key")

	resp, _ := doJSON(t, ts, http.MethodGet, "/api/info", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/info", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret-key")
	authed, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer authed.Body.Close()
	assert.Equal(t, http.StatusOK, authed.StatusCode)

	req, err = http.NewRequest(http.MethodGet, ts.URL+"/api/info", nil)
	require.NoError(t, err)
	req.Header.Set("X-API-Key", "wrong")
	denied, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer denied.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, denied.StatusCode)
}
