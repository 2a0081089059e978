package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/ciphertrace/core/aes"
	"github.com/kochabx/ciphertrace/core/rate"
	"github.com/kochabx/ciphertrace/core/rsa"
	"github.com/kochabx/ciphertrace/errors"
	"github.com/kochabx/ciphertrace/session"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) (*session.Manager, stdhttp.Handler) {
	t.Helper()
	sessions, err := session.NewManager()
	require.NoError(t, err)
	t.Cleanup(sessions.Close)

	return sessions, NewRouter(NewHandler(sessions))
}

func doJSON(t *testing.T, handler stdhttp.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestTraceCaesar(t *testing.T) {
	sessions, router := newTestRouter(t)

	w, env := doJSON(t, router, "POST", "/api/v1/trace/caesar", `{"text":"Hello, World!","shift":3}`)
	require.Equal(t, stdhttp.StatusOK, w.Code)
	require.Equal(t, stdhttp.StatusOK, env.Code)

	var result struct {
		SessionID string            `json:"session_id"`
		Algorithm string            `json:"algorithm"`
		Total     int               `json:"total"`
		Steps     []json.RawMessage `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))

	assert.Equal(t, "caesar", result.Algorithm)
	assert.Equal(t, result.Total, len(result.Steps))
	assert.NotEmpty(t, result.SessionID)

	_, err := sessions.Get(result.SessionID)
	assert.NoError(t, err)
}

func TestTraceCaesarValidation(t *testing.T) {
	_, router := newTestRouter(t)

	w, env := doJSON(t, router, "POST", "/api/v1/trace/caesar", `{"shift":3}`)
	assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeInvalidInput, env.Code)
	assert.NotEmpty(t, env.Data, "failed fields belong in the payload")
}

func TestTraceCaesarMalformedBody(t *testing.T) {
	_, router := newTestRouter(t)

	w, env := doJSON(t, router, "POST", "/api/v1/trace/caesar", `{"text":`)
	assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeFormat, env.Code)
}

func TestTraceAES(t *testing.T) {
	_, router := newTestRouter(t)

	body := `{"plaintext":"00112233445566778899aabbccddeeff","key":"000102030405060708090a0b0c0d0e0f"}`
	w, env := doJSON(t, router, "POST", "/api/v1/trace/aes", body)
	require.Equal(t, stdhttp.StatusOK, w.Code)

	var result struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, aes.StepCount, result.Total)
}

func TestTraceAESRejectsBadHex(t *testing.T) {
	_, router := newTestRouter(t)

	body := `{"plaintext":"zz112233445566778899aabbccddeeff","key":"000102030405060708090a0b0c0d0e0f"}`
	w, env := doJSON(t, router, "POST", "/api/v1/trace/aes", body)
	assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeInvalidInput, env.Code)
}

func TestTraceRSA(t *testing.T) {
	_, router := newTestRouter(t)

	w, env := doJSON(t, router, "POST", "/api/v1/trace/rsa", `{"message":65,"p":61,"q":53,"e":17}`)
	require.Equal(t, stdhttp.StatusOK, w.Code)

	var result struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, rsa.StepCount, result.Total)
}

func TestTraceRSAEngineError(t *testing.T) {
	_, router := newTestRouter(t)

	w, env := doJSON(t, router, "POST", "/api/v1/trace/rsa", `{"message":65,"p":15,"q":53,"e":17}`)
	assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeInvalidPrime, env.Code)
}

func TestShareQR(t *testing.T) {
	_, router := newTestRouter(t)

	_, env := doJSON(t, router, "POST", "/api/v1/trace/caesar", `{"text":"Hi","shift":3}`)
	var created struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, env := doJSON(t, router, "GET", fmt.Sprintf("/api/v1/trace/%s/qr?size=128", created.SessionID), "")
	require.Equal(t, stdhttp.StatusOK, w.Code)

	var qr struct {
		URL string `json:"url"`
		PNG []byte `json:"png"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &qr))
	assert.Contains(t, qr.URL, created.SessionID)
	assert.NotEmpty(t, qr.PNG)
}

func TestRateLimit(t *testing.T) {
	sessions, err := session.NewManager()
	require.NoError(t, err)
	t.Cleanup(sessions.Close)

	router := NewRouter(NewHandler(sessions), WithRateLimiter(rate.NewTokenBucket(1, 1)))

	w, _ := doJSON(t, router, "POST", "/api/v1/trace/caesar", `{"text":"Hi","shift":3}`)
	require.Equal(t, stdhttp.StatusOK, w.Code)

	req := httptest.NewRequest("POST", "/api/v1/trace/caesar", bytes.NewBufferString(`{"text":"Hi","shift":3}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, stdhttp.StatusTooManyRequests, w.Code)
}

func TestShareQRUnknownSession(t *testing.T) {
	_, router := newTestRouter(t)

	w, _ := doJSON(t, router, "GET", "/api/v1/trace/unknown/qr", "")
	assert.Equal(t, stdhttp.StatusNotFound, w.Code)
}
