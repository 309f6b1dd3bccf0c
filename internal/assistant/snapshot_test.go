package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finnova/internal/core"
)

func sampleProfile() core.Profile {
	return core.Profile{
		ID:       "user_01",
		Name:     "Mariana Silva",
		Email:    "demo@finnova.com",
		Balance:  4532050,
		Currency: "USD",
	}
}

func TestBuildSnapshotTrimsToRecent(t *testing.T) {
	var txs []core.Transaction
	for i := 0; i < 12; i++ {
		txs = append(txs, core.Transaction{
			ID:     fmt.Sprintf("tx_%02d", i),
			Amount: -100,
			Date:   time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Hour),
		})
	}

	snap := BuildSnapshot(sampleProfile(), txs)
	assert.Len(t, snap.RecentTransactions, maxSnapshotTransactions)
	assert.Equal(t, "tx_00", snap.RecentTransactions[0].ID, "keeps the head of the list")
	assert.Equal(t, 45320.50, snap.TotalBalance, "balance is reported in major units")
}

func TestSnapshotJSONShape(t *testing.T) {
	snap := BuildSnapshot(sampleProfile(), nil)
	raw, err := snap.ToJSON()
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Contains(t, decoded, "user")
	assert.Contains(t, decoded, "recent_transactions")
	assert.Contains(t, decoded, "total_balance")
}

func TestDisabledClientReturnsCannedReply(t *testing.T) {
	c, err := New(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, c.Enabled())
	assert.Equal(t, missingKeyReply, c.Analyze(context.Background(), "how much did I spend?", "{}"))
	assert.Equal(t, missingKeyReply, c.AnalyzeLedger(context.Background(), "q", sampleProfile(), nil))
}
