// Package receipt verifies App Store receipts.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidReceipt means the store rejected the receipt itself.
	ErrInvalidReceipt = errors.New("invalid receipt")
	// ErrUnavailable means the verifier is refusing calls (circuit open).
	ErrUnavailable = errors.New("receipt verifier unavailable")
)

type Request struct {
	Receipt   string
	ProductID string
}

// Transaction is one purchase entry of a verified receipt.
type Transaction struct {
	ProductID             string
	TransactionID         string
	OriginalTransactionID string
	PurchaseDate          time.Time
	ExpirationDate        time.Time
}

type Result struct {
	// Transaction is the most recent entry for the requested product.
	Transaction
	// LatestReceiptInfo holds every entry the store returned, newest first.
	LatestReceiptInfo []Transaction
	// LatestReceipt is the refreshed receipt blob, when the store sends one.
	LatestReceipt string
}

// Verifier checks a receipt with the store.
type Verifier interface {
	Verify(ctx context.Context, req Request) (*Result, error)
}

// Outcome is the settled value of an asynchronous verification.
type Outcome struct {
	Result *Result
	Err    error
}

// Async starts a verification and returns a channel that receives exactly one
// Outcome. A panicking verifier settles with an error.
func Async(ctx context.Context, v Verifier, req Request) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		var out Outcome
		defer func() {
			if r := recover(); r != nil {
				out = Outcome{Err: fmt.Errorf("verifier panic: %v", r)}
			}
			ch <- out
		}()
		out.Result, out.Err = v.Verify(ctx, req)
	}()
	return ch
}

// VerifyWithTimeout bounds a verification by timeout.
func VerifyWithTimeout(ctx context.Context, v Verifier, req Request, timeout time.Duration) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case out := <-Async(ctx, v, req):
		return out.Result, out.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LatestFor returns the entry with the latest purchase date among those sharing
// originalTransactionID.
func (r *Result) LatestFor(originalTransactionID string) (Transaction, bool) {
	var (
		latest Transaction
		found  bool
	)
	for _, tx := range r.LatestReceiptInfo {
		if tx.OriginalTransactionID != originalTransactionID {
			continue
		}
		if !found || tx.PurchaseDate.After(latest.PurchaseDate) {
			latest = tx
			found = true
		}
	}
	return latest, found
}

// Find returns the entry with the given transaction id.
func (r *Result) Find(transactionID string) (Transaction, bool) {
	for _, tx := range r.LatestReceiptInfo {
		if tx.TransactionID == transactionID {
			return tx, true
		}
	}
	return Transaction{}, false
}
