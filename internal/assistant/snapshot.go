package assistant

import (
	"encoding/json"
	"fmt"

	"finnova/internal/core"
)

// maxSnapshotTransactions bounds the context sent to the model; the most
// recent entries carry all the signal a spending question needs.
const maxSnapshotTransactions = 8

// Snapshot is the financial context serialized into each model request.
type Snapshot struct {
	User               core.Profile       `json:"user"`
	RecentTransactions []core.Transaction `json:"recent_transactions"`
	TotalBalance       float64            `json:"total_balance"`
}

// BuildSnapshot trims the transaction list and converts the balance to
// major units so the model reasons about dollars, not cents.
func BuildSnapshot(profile core.Profile, txs []core.Transaction) Snapshot {
	if len(txs) > maxSnapshotTransactions {
		txs = txs[:maxSnapshotTransactions]
	}
	recent := make([]core.Transaction, len(txs))
	copy(recent, txs)

	return Snapshot{
		User:               profile,
		RecentTransactions: recent,
		TotalBalance:       core.MajorUnits(profile.Balance),
	}
}

// ToJSON renders the snapshot for embedding in the prompt.
func (s Snapshot) ToJSON() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(raw), nil
}
