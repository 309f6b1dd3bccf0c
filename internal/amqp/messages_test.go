package amqp

import (
	"testing"
	"time"

	"finnova/internal/core"
)

func TestNewTransactionCreatedMessage(t *testing.T) {
	tx := core.Transaction{
		ID:       "tx_123",
		Kind:     core.KindDeposit,
		Amount:   100000,
		Currency: "USD",
		Category: core.CategorySalary,
		Merchant: "Employer Inc",
		Date:     time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	}
	msg := NewTransactionCreatedMessage(tx)

	if msg.MessageID == "" {
		t.Fatal("message id should be set")
	}
	if msg.TransactionID != "tx_123" || msg.Kind != "deposit" || msg.AmountCents != 100000 {
		t.Fatalf("unexpected message: %+v", msg)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := TransactionCreatedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.TransactionID != msg.TransactionID || !back.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, msg)
	}
}

func TestTransactionCreatedMessageFromJSONInvalid(t *testing.T) {
	if _, err := TransactionCreatedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
