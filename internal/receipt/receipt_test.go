package receipt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(ctx context.Context, req Request) (*Result, error)

func (f verifierFunc) Verify(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}

func TestVerifyWithTimeout_Expires(t *testing.T) {
	slow := verifierFunc(func(ctx context.Context, req Request) (*Result, error) {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return nil, ctx.Err()
	})

	_, err := VerifyWithTimeout(context.Background(), slow, Request{}, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerifyWithTimeout_Returns(t *testing.T) {
	fast := verifierFunc(func(ctx context.Context, req Request) (*Result, error) {
		return &Result{Transaction: Transaction{TransactionID: req.Receipt}}, nil
	})

	res, err := VerifyWithTimeout(context.Background(), fast, Request{Receipt: "r1"}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "r1", res.TransactionID)
}

func TestAsync_DeliversOnce(t *testing.T) {
	v := verifierFunc(func(ctx context.Context, req Request) (*Result, error) {
		return nil, ErrInvalidReceipt
	})

	out := <-Async(context.Background(), v, Request{})
	assert.ErrorIs(t, out.Err, ErrInvalidReceipt)
	assert.Nil(t, out.Result)
}

func TestAsync_RecoversPanic(t *testing.T) {
	v := verifierFunc(func(ctx context.Context, req Request) (*Result, error) {
		panic("boom")
	})

	out := <-Async(context.Background(), v, Request{})
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "boom")
}

func TestBreakerVerifier_InvalidReceiptsDoNotTrip(t *testing.T) {
	v := NewBreakerVerifier(verifierFunc(func(ctx context.Context, req Request) (*Result, error) {
		return nil, ErrInvalidReceipt
	}))

	for i := 0; i < 20; i++ {
		_, err := v.Verify(context.Background(), Request{})
		assert.ErrorIs(t, err, ErrInvalidReceipt)
	}
	assert.Equal(t, gobreaker.StateClosed, v.State())
}

func TestBreakerVerifier_OpensOnOutage(t *testing.T) {
	v := NewBreakerVerifier(verifierFunc(func(ctx context.Context, req Request) (*Result, error) {
		return nil, errors.New("connection refused")
	}))

	for i := 0; i < 10; i++ {
		_, _ = v.Verify(context.Background(), Request{})
	}
	require.Equal(t, gobreaker.StateOpen, v.State())

	_, err := v.Verify(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestParseNotification(t *testing.T) {
	body := []byte(`{
	  "notification_type": "DID_RENEW",
	  "password": "secret",
	  "auto_renew_product_id": "premium_monthly",
	  "unified_receipt": {
	    "status": 0,
	    "latest_receipt": "blob",
	    "latest_receipt_info": [
	      {"product_id": "premium_monthly", "transaction_id": "t1", "original_transaction_id": "o1",
	       "purchase_date_ms": "1700000000000", "expires_date_ms": "1702592000000"},
	      {"product_id": "premium_monthly", "transaction_id": "t2", "original_transaction_id": "o1",
	       "purchase_date_ms": "1702592000000", "expires_date_ms": "1705270400000"}
	    ]
	  }
	}`)

	n, err := ParseNotification(body)
	require.NoError(t, err)
	assert.True(t, n.IsRenewal())
	assert.False(t, n.IsTermination())
	assert.Equal(t, "secret", n.Password)

	latest, ok := n.Latest()
	require.True(t, ok)
	assert.Equal(t, "t2", latest.TransactionID)
}

func TestParseNotification_MissingType(t *testing.T) {
	_, err := ParseNotification([]byte(`{"password": "x"}`))
	assert.Error(t, err)
}
