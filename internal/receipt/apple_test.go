package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{
  "status": 0,
  "receipt": {"bundle_id": "com.airwell.app", "in_app": []},
  "latest_receipt": "refreshed",
  "latest_receipt_info": [
    {"product_id": "premium_monthly", "transaction_id": "t1", "original_transaction_id": "o1",
     "purchase_date_ms": "1700000000000", "expires_date_ms": "1702592000000"},
    {"product_id": "premium_monthly", "transaction_id": "t2", "original_transaction_id": "o1",
     "purchase_date_ms": "1702592000000", "expires_date_ms": "1705270400000"}
  ]
}`

func newTestClient(prod, sandbox string) *AppleClient {
	return NewAppleClient(AppleConfig{
		SharedSecret:  "secret",
		BundleID:      "com.airwell.app",
		ProductionURL: prod,
		SandboxURL:    sandbox,
	})
}

func TestAppleClient_Verify(t *testing.T) {
	var got verifyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(validBody))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL, srv.URL).Verify(context.Background(), Request{Receipt: "blob", ProductID: "premium_monthly"})
	require.NoError(t, err)

	assert.Equal(t, "blob", got.ReceiptData)
	assert.Equal(t, "secret", got.Password)
	assert.Equal(t, "t2", res.TransactionID)
	assert.Equal(t, time.UnixMilli(1705270400000).UTC(), res.ExpirationDate)
	assert.Equal(t, "refreshed", res.LatestReceipt)
	require.Len(t, res.LatestReceiptInfo, 2)

	latest, ok := res.LatestFor("o1")
	require.True(t, ok)
	assert.Equal(t, "t2", latest.TransactionID)

	found, ok := res.Find("t1")
	require.True(t, ok)
	assert.Equal(t, "o1", found.OriginalTransactionID)
}

func TestAppleClient_RetriesSandbox(t *testing.T) {
	var sandboxCalls int32
	prod := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 21007}`))
	}))
	defer prod.Close()
	sandbox := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&sandboxCalls, 1)
		_, _ = w.Write([]byte(validBody))
	}))
	defer sandbox.Close()

	res, err := newTestClient(prod.URL, sandbox.URL).Verify(context.Background(), Request{Receipt: "blob"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&sandboxCalls))
	assert.Equal(t, "t2", res.TransactionID)
}

func TestAppleClient_InvalidReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 21003}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, srv.URL).Verify(context.Background(), Request{Receipt: "blob"})
	assert.ErrorIs(t, err, ErrInvalidReceipt)
}

func TestAppleClient_WrongBundle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 0, "receipt": {"bundle_id": "com.other"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, srv.URL).Verify(context.Background(), Request{Receipt: "blob"})
	assert.ErrorIs(t, err, ErrInvalidReceipt)
}

func TestAppleClient_UnknownProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validBody))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, srv.URL).Verify(context.Background(), Request{Receipt: "blob", ProductID: "premium_yearly"})
	assert.ErrorIs(t, err, ErrInvalidReceipt)
}

func TestAppleClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, srv.URL).Verify(context.Background(), Request{Receipt: "blob"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidReceipt))
}
