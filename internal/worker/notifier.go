// Package worker consumes transaction-created events and produces the
// notification side effects: a localized log line per transaction and a
// periodic spending summary recomputed from the ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finnova/internal/amqp"
	"finnova/internal/analytics"
	"finnova/internal/core"
	"finnova/internal/ledger"
)

// Notifier reacts to ledger events. It reads the ledger through its own
// store handle so summaries reflect the state after the event, not the
// event payload alone.
type Notifier struct {
	ledger *ledger.Store
}

func NewNotifier(store *ledger.Store) *Notifier {
	return &Notifier{ledger: store}
}

// HandleTransactionCreated processes one event: it logs the notification
// that a push gateway would send and refreshes the weekly spend totals.
func (n *Notifier) HandleTransactionCreated(ctx context.Context, msg *amqp.TransactionCreatedMessage) error {
	slog.InfoContext(ctx, "Transaction notification",
		"message_id", msg.MessageID,
		"transaction_id", msg.TransactionID,
		"kind", msg.Kind,
		"amount", formatAmount(msg.AmountCents, msg.Currency),
		"merchant", msg.Merchant)

	txs, err := n.ledger.Transactions(ctx)
	if err != nil {
		return fmt.Errorf("reload transactions: %w", err)
	}

	days := analytics.DailySpend(txs, time.Now())
	var weekTotal float64
	for _, d := range days {
		weekTotal += d.Amount
	}
	slog.InfoContext(ctx, "Weekly spend refreshed",
		"transaction_id", msg.TransactionID,
		"week_total", fmt.Sprintf("%.2f", weekTotal))

	return nil
}

// LogLedgerSummary is the periodic heartbeat: current balance plus the
// category breakdown, logged at info level.
func (n *Notifier) LogLedgerSummary(ctx context.Context) error {
	profile, err := n.ledger.Profile(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	txs, err := n.ledger.Transactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	breakdown := analytics.CategoryBreakdown(txs, 4)
	categories := make([]string, 0, len(breakdown))
	for _, c := range breakdown {
		categories = append(categories, fmt.Sprintf("%s=%d", c.Name, c.Value))
	}

	slog.InfoContext(ctx, "Ledger summary",
		"profile_id", profile.ID,
		"balance", formatAmount(profile.Balance, profile.Currency),
		"transactions", len(txs),
		"top_categories", categories)
	return nil
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%s %s", currency, core.FormatForDisplay(core.MajorUnits(cents)))
}
