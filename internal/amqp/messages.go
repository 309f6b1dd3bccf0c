package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"finnova/internal/core"
)

// TransactionCreatedMessage announces a transaction appended to the ledger.
// It carries everything a consumer needs so the worker does not have to
// race the document store for details.
type TransactionCreatedMessage struct {
	MessageID     string    `json:"message_id"`
	TransactionID string    `json:"transaction_id"`
	Kind          string    `json:"kind"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	Category      string    `json:"category"`
	Merchant      string    `json:"merchant,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionCreatedMessage(tx core.Transaction) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		MessageID:     uuid.NewString(),
		TransactionID: tx.ID,
		Kind:          string(tx.Kind),
		AmountCents:   tx.Amount,
		Currency:      tx.Currency,
		Category:      string(tx.Category),
		Merchant:      tx.Merchant,
		Timestamp:     tx.Date,
	}
}

func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var msg TransactionCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
