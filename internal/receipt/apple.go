package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"
)

const (
	AppleProductionURL = "https://buy.itunes.apple.com/verifyReceipt"
	AppleSandboxURL    = "https://sandbox.itunes.apple.com/verifyReceipt"

	statusOK             = 0
	statusSandboxReceipt = 21007
)

type AppleConfig struct {
	SharedSecret  string
	BundleID      string
	ProductionURL string
	SandboxURL    string
	HTTPClient    *http.Client
}

// AppleClient talks to the legacy verifyReceipt endpoint.
type AppleClient struct {
	httpClient    *http.Client
	productionURL string
	sandboxURL    string
	password      string
	bundleID      string
}

func NewAppleClient(cfg AppleConfig) *AppleClient {
	c := &AppleClient{
		httpClient:    cfg.HTTPClient,
		productionURL: cfg.ProductionURL,
		sandboxURL:    cfg.SandboxURL,
		password:      cfg.SharedSecret,
		bundleID:      cfg.BundleID,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.productionURL == "" {
		c.productionURL = AppleProductionURL
	}
	if c.sandboxURL == "" {
		c.sandboxURL = AppleSandboxURL
	}
	return c
}

type verifyRequest struct {
	ReceiptData            string `json:"receipt-data"`
	Password               string `json:"password,omitempty"`
	ExcludeOldTransactions bool   `json:"exclude-old-transactions"`
}

type appleTransaction struct {
	ProductID             string `json:"product_id"`
	TransactionID         string `json:"transaction_id"`
	OriginalTransactionID string `json:"original_transaction_id"`
	PurchaseDateMs        string `json:"purchase_date_ms"`
	ExpiresDateMs         string `json:"expires_date_ms"`
}

type verifyResponse struct {
	Status      int    `json:"status"`
	Environment string `json:"environment"`
	Receipt     struct {
		BundleID string             `json:"bundle_id"`
		InApp    []appleTransaction `json:"in_app"`
	} `json:"receipt"`
	LatestReceiptInfo []appleTransaction `json:"latest_receipt_info"`
	LatestReceipt     string             `json:"latest_receipt"`
}

func (c *AppleClient) Verify(ctx context.Context, req Request) (*Result, error) {
	resp, err := c.post(ctx, c.productionURL, req.Receipt)
	if err != nil {
		return nil, err
	}
	if resp.Status == statusSandboxReceipt {
		resp, err = c.post(ctx, c.sandboxURL, req.Receipt)
		if err != nil {
			return nil, err
		}
	}
	if resp.Status != statusOK {
		return nil, fmt.Errorf("%w: apple status %d", ErrInvalidReceipt, resp.Status)
	}
	if c.bundleID != "" && resp.Receipt.BundleID != "" && resp.Receipt.BundleID != c.bundleID {
		return nil, fmt.Errorf("%w: bundle id %q", ErrInvalidReceipt, resp.Receipt.BundleID)
	}

	entries := resp.LatestReceiptInfo
	if len(entries) == 0 {
		entries = resp.Receipt.InApp
	}
	txs := convertTransactions(entries)
	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: no transactions", ErrInvalidReceipt)
	}

	result := &Result{LatestReceiptInfo: txs, LatestReceipt: resp.LatestReceipt}
	matched := false
	for _, tx := range txs {
		if req.ProductID == "" || tx.ProductID == req.ProductID {
			result.Transaction = tx
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: no transaction for product %q", ErrInvalidReceipt, req.ProductID)
	}
	return result, nil
}

func (c *AppleClient) post(ctx context.Context, url, receiptData string) (*verifyResponse, error) {
	body, err := json.Marshal(verifyRequest{
		ReceiptData:            receiptData,
		Password:               c.password,
		ExcludeOldTransactions: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode verify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call verifyReceipt: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verifyReceipt returned status %d", httpResp.StatusCode)
	}

	var resp verifyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode verifyReceipt response: %w", err)
	}
	return &resp, nil
}

// convertTransactions parses entries and sorts them newest purchase first.
func convertTransactions(entries []appleTransaction) []Transaction {
	txs := make([]Transaction, 0, len(entries))
	for _, e := range entries {
		txs = append(txs, Transaction{
			ProductID:             e.ProductID,
			TransactionID:         e.TransactionID,
			OriginalTransactionID: e.OriginalTransactionID,
			PurchaseDate:          parseMillis(e.PurchaseDateMs),
			ExpirationDate:        parseMillis(e.ExpiresDateMs),
		})
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].PurchaseDate.After(txs[j].PurchaseDate)
	})
	return txs
}

func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
