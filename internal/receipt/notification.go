package receipt

import (
	"encoding/json"
	"fmt"
)

// App Store server notification types handled by the backend.
const (
	NotificationDidRenew           = "DID_RENEW"
	NotificationInteractiveRenewal = "INTERACTIVE_RENEWAL"
	NotificationExpired            = "EXPIRED"
	NotificationDidFailToRenew     = "DID_FAIL_TO_RENEW"
	NotificationCancel             = "CANCEL"
	NotificationRefund             = "REFUND"
)

// Notification is a decoded App Store server-to-server notification.
type Notification struct {
	Type          string
	Password      string
	Environment   string
	ProductID     string
	LatestReceipt string
	Transactions  []Transaction
}

type serverNotification struct {
	NotificationType   string `json:"notification_type"`
	Password           string `json:"password"`
	Environment        string `json:"environment"`
	AutoRenewProductID string `json:"auto_renew_product_id"`
	UnifiedReceipt     struct {
		Status            int                `json:"status"`
		LatestReceipt     string             `json:"latest_receipt"`
		LatestReceiptInfo []appleTransaction `json:"latest_receipt_info"`
	} `json:"unified_receipt"`
}

func ParseNotification(body []byte) (*Notification, error) {
	var raw serverNotification
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}
	if raw.NotificationType == "" {
		return nil, fmt.Errorf("notification_type is missing")
	}
	return &Notification{
		Type:          raw.NotificationType,
		Password:      raw.Password,
		Environment:   raw.Environment,
		ProductID:     raw.AutoRenewProductID,
		LatestReceipt: raw.UnifiedReceipt.LatestReceipt,
		Transactions:  convertTransactions(raw.UnifiedReceipt.LatestReceiptInfo),
	}, nil
}

// Latest returns the newest transaction of the notification.
func (n *Notification) Latest() (Transaction, bool) {
	if len(n.Transactions) == 0 {
		return Transaction{}, false
	}
	return n.Transactions[0], true
}

// IsRenewal reports whether the notification extends a subscription.
func (n *Notification) IsRenewal() bool {
	return n.Type == NotificationDidRenew || n.Type == NotificationInteractiveRenewal
}

// IsTermination reports whether the notification ends a subscription.
func (n *Notification) IsTermination() bool {
	switch n.Type {
	case NotificationExpired, NotificationDidFailToRenew, NotificationCancel, NotificationRefund:
		return true
	}
	return false
}
