package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/linlinbupt123-crypto/hdwallet_service/config"
	"github.com/linlinbupt123-crypto/hdwallet_service/entity"
	"github.com/linlinbupt123-crypto/hdwallet_service/request"
	"github.com/linlinbupt123-crypto/hdwallet_service/service"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func init() {
	gin.SetMode(gin.TestMode)
}

type response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func newTestRouter(t *testing.T, mode string) *gin.Engine {
	cfg := config.Default()
	svc, err := service.NewWalletServiceFromConfig(cfg)
	require.NoError(t, err)
	return NewRouter(svc, RouterOpts{MnemonicValidation: mode, MetricsEnabled: true})
}

func do(t *testing.T, r http.Handler, method, target string, body any) (*httptest.ResponseRecorder, response) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func doForm(t *testing.T, r http.Handler, target string, form url.Values) (*httptest.ResponseRecorder, response) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestPing(t *testing.T) {
	w, resp := do(t, newTestRouter(t, request.ModeBIP39), http.MethodGet, "/api/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Pong", resp.Message)
}

func TestNotFound(t *testing.T) {
	r := newTestRouter(t, request.ModeBIP39)

	w, resp := do(t, r, http.MethodGet, "/nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "fail", resp.Status)
	assert.Equal(t, "Route: /nonexistent does not exist on this server", resp.Message)

	w, resp = do(t, r, http.MethodGet, "/privatekey?x=1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, resp.Message, "/privatekey?x=1")
}

func TestGenerateMnemonicEndpoint(t *testing.T) {
	w, resp := do(t, newTestRouter(t, request.ModeBIP39), http.MethodGet, "/mnenomic", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mnemonic generated Successfully", resp.Message)

	var mnemonic string
	require.NoError(t, json.Unmarshal(resp.Data, &mnemonic))
	words := strings.Split(mnemonic, " ")
	require.Len(t, words, 24)
	for _, word := range words {
		_, ok := bip39.GetWordIndex(word)
		assert.True(t, ok, word)
	}
}

func TestGenerateMasterKeysEndpoint(t *testing.T) {
	r := newTestRouter(t, request.ModeBIP39)

	w, resp := do(t, r, http.MethodPost, "/privatekey", gin.H{"mnemonic": testMnemonic})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully generated master keys", resp.Message)

	var keys entity.MasterKeys
	require.NoError(t, json.Unmarshal(resp.Data, &keys))
	assert.True(t, strings.HasPrefix(keys.XPrv, "tprv"))
	assert.True(t, strings.HasPrefix(keys.XPub, "tpub"))

	_, again := do(t, r, http.MethodPost, "/privatekey", gin.H{"mnemonic": testMnemonic})
	assert.JSONEq(t, string(resp.Data), string(again.Data))

	_, spaced := do(t, r, http.MethodPost, "/privatekey", gin.H{"mnemonic": strings.ReplaceAll(testMnemonic, " ", "  ")})
	assert.JSONEq(t, string(resp.Data), string(spaced.Data))
}

func TestFormEncodedBodies(t *testing.T) {
	r := newTestRouter(t, request.ModeBIP39)

	_, jsonResp := do(t, r, http.MethodPost, "/privatekey", gin.H{"mnemonic": testMnemonic})

	w, resp := doForm(t, r, "/privatekey", url.Values{"mnemonic": {testMnemonic}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(jsonResp.Data), string(resp.Data))

	var keys entity.MasterKeys
	require.NoError(t, json.Unmarshal(resp.Data, &keys))
	w, resp = doForm(t, r, "/getaddress?type=p2wpkh", url.Values{"xpub": {keys.XPub}})
	require.Equal(t, http.StatusOK, w.Code)
	var batches entity.AddressBatches
	require.NoError(t, json.Unmarshal(resp.Data, &batches))
	assert.Len(t, batches.Address, 10)

	w, resp = doForm(t, r, "/privatekey", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errs []request.FieldError
	require.NoError(t, json.Unmarshal(resp.Error, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "mnemonic", errs[0].Param)
	assert.Equal(t, "mnemonic is required", errs[0].Msg)
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t, request.ModeBIP39)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Origin", "https://wallet.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/privatekey", nil)
	preflight.Header.Set("Origin", "https://wallet.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, preflight)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	svc, err := service.NewWalletServiceFromConfig(config.Default())
	require.NoError(t, err)
	restricted := NewRouter(svc, RouterOpts{CORSOrigins: []string{"https://wallet.example"}})

	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Origin", "https://wallet.example")
	w = httptest.NewRecorder()
	restricted.ServeHTTP(w, req)
	assert.Equal(t, "https://wallet.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	restricted.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGenerateMasterKeysValidation(t *testing.T) {
	tests := []struct {
		name string
		mode string
		body any
	}{
		{"empty mnemonic", request.ModeBIP39, gin.H{"mnemonic": ""}},
		{"missing body", request.ModeBIP39, nil},
		{"bad checksum", request.ModeBIP39, gin.H{"mnemonic": "abandon abandon ability"}},
		{"wrong type", request.ModeBIP39, gin.H{"mnemonic": 42}},
		{"whitespace only", request.ModeBIP39, gin.H{"mnemonic": " \t "}},
		{"whitelist empty", request.ModeWhitelist, gin.H{"mnemonic": "  "}},
		// The legacy whitelist rejects the space, even for a valid BIP39 phrase.
		{"whitelist space", request.ModeWhitelist, gin.H{"mnemonic": "abandon abandon ability"}},
		{"whitelist valid phrase", request.ModeWhitelist, gin.H{"mnemonic": testMnemonic}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, newTestRouter(t, tt.mode), http.MethodPost, "/privatekey", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var errs []request.FieldError
			require.NoError(t, json.Unmarshal(resp.Error, &errs))
			require.NotEmpty(t, errs)
			assert.Equal(t, "mnemonic", errs[0].Param)
		})
	}
}

func TestGenerateAddressEndpoint(t *testing.T) {
	r := newTestRouter(t, request.ModeBIP39)

	_, keysResp := do(t, r, http.MethodPost, "/privatekey", gin.H{"mnemonic": testMnemonic})
	var keys entity.MasterKeys
	require.NoError(t, json.Unmarshal(keysResp.Data, &keys))

	w, resp := do(t, r, http.MethodPost, "/getaddress", gin.H{"xpub": keys.XPub})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully generated address", resp.Message)

	var batches entity.AddressBatches
	require.NoError(t, json.Unmarshal(resp.Data, &batches))
	require.Len(t, batches.Address, 10)
	require.Len(t, batches.ChangeAddress, 10)

	fingerprint := batches.Address[0].MasterFingerprint
	for i := 0; i < 10; i++ {
		assert.Equal(t, fmt.Sprintf("0/%d", i), batches.Address[i].DerivationPath)
		assert.Equal(t, fmt.Sprintf("1/%d", i), batches.ChangeAddress[i].DerivationPath)
		assert.Equal(t, fingerprint, batches.Address[i].MasterFingerprint)
		assert.Equal(t, fingerprint, batches.ChangeAddress[i].MasterFingerprint)
		assert.Equal(t, "p2pkh", batches.Address[i].Name)
	}
	assert.NotContains(t, w.Body.String(), "tprv")

	w, resp = do(t, r, http.MethodPost, "/getaddress?type=p2wpkh", gin.H{"xpub": keys.XPub})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &batches))
	for _, addr := range batches.Address {
		assert.True(t, strings.HasPrefix(addr.Address, "tb1q"), addr.Address)
		assert.Equal(t, "p2wpkh", addr.Name)
		assert.Equal(t, "c0cebcd6", addr.MasterFingerprint)
	}
}

func TestGenerateAddressRejectsBadInput(t *testing.T) {
	r := newTestRouter(t, request.ModeBIP39)

	_, keysResp := do(t, r, http.MethodPost, "/privatekey", gin.H{"mnemonic": testMnemonic})
	var keys entity.MasterKeys
	require.NoError(t, json.Unmarshal(keysResp.Data, &keys))

	tests := []struct {
		name  string
		body  any
		param string
	}{
		{"missing xpub", gin.H{}, "xpub"},
		{"no body", nil, "xpub"},
		{"garbage xpub", gin.H{"xpub": "hello"}, "xpub"},
		{"private key", gin.H{"xpub": keys.XPrv}, "xpub"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, r, http.MethodPost, "/getaddress", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var errs []request.FieldError
			require.NoError(t, json.Unmarshal(resp.Error, &errs))
			require.Len(t, errs, 1)
			assert.Equal(t, tt.param, errs[0].Param)
			assert.NotContains(t, errs[0].Msg, "DERIVATION_ERROR")
		})
	}
}

type failingWallet struct {
	panics bool
}

func (f failingWallet) GenerateMnemonic() (string, error) {
	if f.panics {
		panic("entropy source exhausted")
	}
	return "", errors.New("entropy source exhausted")
}

func (f failingWallet) GenerateMasterKeys(context.Context, string) (*entity.MasterKeys, error) {
	return nil, errors.New("boom")
}

func (f failingWallet) GenerateAddresses(context.Context, string, string) (*entity.AddressBatches, error) {
	return nil, errors.New("boom")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	r := NewRouter(failingWallet{}, RouterOpts{MnemonicValidation: request.ModeBIP39})

	for _, tc := range []struct {
		method, target string
		body           any
	}{
		{http.MethodGet, "/mnenomic", nil},
		{http.MethodPost, "/privatekey", gin.H{"mnemonic": testMnemonic}},
		{http.MethodPost, "/getaddress", gin.H{"xpub": "tpubAnything"}},
	} {
		w, resp := do(t, r, tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, tc.target)
		assert.JSONEq(t, `"Internal Server Error"`, string(resp.Error))
		assert.NotContains(t, w.Body.String(), "boom")
	}

	panicking := NewRouter(failingWallet{panics: true}, RouterOpts{MnemonicValidation: request.ModeBIP39, MetricsEnabled: true})
	w, resp := do(t, panicking, http.MethodGet, "/mnenomic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `"Internal Server Error"`, string(resp.Error))

	w, _ = do(t, panicking, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hdwallet_http_requests_total{method="GET",route="/mnenomic",status="500"} 1`)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, request.ModeBIP39)
	do(t, r, http.MethodGet, "/api/ping", nil)
	do(t, r, http.MethodGet, "/missing", nil)

	w, _ := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `hdwallet_http_requests_total{method="GET",route="/api/ping",status="200"} 1`)
	assert.Contains(t, body, `route="unmatched",status="404"`)

	disabled := NewRouter(failingWallet{}, RouterOpts{})
	w, _ = do(t, disabled, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
