// Package ledger is the single source of truth for the profile, the
// transaction list and the virtual card. Every mutation is a full
// load-modify-save cycle over the persisted document.
//
// Mutations are serialized through an internal mutex, so two operations
// issued concurrently cannot interleave their load and save steps and lose
// an update. Callers still get no cross-call isolation beyond that: a
// balance read before a mutation may be stale by the time the mutation
// runs, which is why the sufficient-funds check lives at the API boundary
// and not here.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"finnova/internal/amqp"
	"finnova/internal/core"
	"finnova/internal/kv"
)

type Store struct {
	mu     sync.Mutex
	docs   kv.DocumentStore
	events *amqp.Client // optional, nil disables event publishing
	now    func() time.Time
}

func NewStore(docs kv.DocumentStore, events *amqp.Client) *Store {
	return &Store{
		docs:   docs,
		events: events,
		now:    time.Now,
	}
}

// InitializeOrLoad returns the persisted document, seeding and persisting
// one when none exists. Idempotent after the first call.
func (s *Store) InitializeOrLoad(ctx context.Context) (core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Authenticate stands in for login and signup. It overwrites the stored
// email, takes the given display name when provided and otherwise derives
// one from the email's local-part when the email changed. It never rejects.
func (s *Store) Authenticate(ctx context.Context, email, name string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return core.Profile{}, err
	}

	finalName := doc.Profile.Name
	if name != "" {
		finalName = name
	} else if email != doc.Profile.Email {
		finalName = deriveName(email)
	}

	doc.Profile.Email = email
	doc.Profile.Name = finalName
	if err := s.save(ctx, doc); err != nil {
		return core.Profile{}, err
	}
	return doc.Profile, nil
}

// UpdateProfile shallow-merges the given fields into the stored profile.
// Field-level validation belongs to the caller.
func (s *Store) UpdateProfile(ctx context.Context, upd core.ProfileUpdate) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return core.Profile{}, err
	}

	if upd.Name != nil {
		doc.Profile.Name = *upd.Name
	}
	if upd.Email != nil {
		doc.Profile.Email = *upd.Email
	}
	if upd.AvatarURL != nil {
		doc.Profile.AvatarURL = *upd.AvatarURL
	}

	if err := s.save(ctx, doc); err != nil {
		return core.Profile{}, err
	}
	return doc.Profile, nil
}

// Profile returns the stored profile.
func (s *Store) Profile(ctx context.Context) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return core.Profile{}, err
	}
	return doc.Profile, nil
}

// Transactions returns all transactions, most recent first. The sort
// happens at read time; storage order is insertion order.
func (s *Store) Transactions(ctx context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	txs := make([]core.Transaction, len(doc.Transactions))
	copy(txs, doc.Transactions)
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}

// Card returns the stored virtual card.
func (s *Store) Card(ctx context.Context) (core.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return core.Card{}, err
	}
	return doc.Card, nil
}

// SetCardFrozen flips the frozen flag of the stored card. An id that does
// not match the single stored card yields ErrNotFound.
func (s *Store) SetCardFrozen(ctx context.Context, cardID string, frozen bool) (core.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return core.Card{}, err
	}
	if doc.Card.ID != cardID {
		return core.Card{}, core.ErrNotFound
	}

	doc.Card.Frozen = frozen
	if err := s.save(ctx, doc); err != nil {
		return core.Card{}, err
	}
	return doc.Card, nil
}

// Deposit credits the balance and appends the matching completed
// transaction. Amounts are minor units and must be positive.
func (s *Store) Deposit(ctx context.Context, amountCents int64, source string) (core.Profile, error) {
	if amountCents <= 0 {
		return core.Profile{}, core.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return core.Profile{}, err
	}

	doc.Profile.Balance += amountCents
	tx := core.Transaction{
		ID:          s.newTransactionID(),
		ProfileID:   doc.Profile.ID,
		Kind:        core.KindDeposit,
		Amount:      amountCents,
		Currency:    doc.Profile.Currency,
		Date:        s.now(),
		Description: "Funds Deposit",
		Category:    core.CategorySalary,
		Merchant:    source,
		Status:      core.StatusCompleted,
	}

	if err := s.append(ctx, &doc, tx); err != nil {
		return core.Profile{}, err
	}
	return doc.Profile, nil
}

// Transfer debits the balance and appends the matching payment
// transaction. The balance may go negative: sufficient funds is a caller
// precondition, not a store guarantee.
func (s *Store) Transfer(ctx context.Context, amountCents int64, recipient, description string) (core.Profile, error) {
	if amountCents <= 0 {
		return core.Profile{}, core.ErrInvalidAmount
	}
	if description == "" {
		description = "Transfer"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return core.Profile{}, err
	}

	doc.Profile.Balance -= amountCents
	tx := core.Transaction{
		ID:          s.newTransactionID(),
		ProfileID:   doc.Profile.ID,
		Kind:        core.KindPayment,
		Amount:      -amountCents,
		Currency:    doc.Profile.Currency,
		Date:        s.now(),
		Description: description,
		Category:    core.CategoryOthers,
		Merchant:    recipient,
		Status:      core.StatusCompleted,
	}

	if err := s.append(ctx, &doc, tx); err != nil {
		return core.Profile{}, err
	}
	return doc.Profile, nil
}

// SendPix debits the balance like Transfer but records the transaction in
// BRL regardless of the profile currency, a bookkeeping quirk of the Pix
// rail kept on purpose. Returns the created transaction.
func (s *Store) SendPix(ctx context.Context, amountCents int64, description string) (core.Transaction, error) {
	if amountCents <= 0 {
		return core.Transaction{}, core.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	doc.Profile.Balance -= amountCents
	tx := core.Transaction{
		ID:          s.newTransactionID(),
		ProfileID:   doc.Profile.ID,
		Kind:        core.KindPix,
		Amount:      -amountCents,
		Currency:    "BRL",
		Date:        s.now(),
		Description: description,
		Category:    core.CategoryOthers,
		Status:      core.StatusCompleted,
	}

	if err := s.append(ctx, &doc, tx); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// append prepends the transaction, persists the whole document and
// publishes the created event. Publish failures are logged, never
// propagated: the ledger write already succeeded.
func (s *Store) append(ctx context.Context, doc *core.Document, tx core.Transaction) error {
	doc.Transactions = append([]core.Transaction{tx}, doc.Transactions...)
	if err := s.save(ctx, *doc); err != nil {
		return err
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, amqp.NewTransactionCreatedMessage(tx)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction event",
				"transaction_id", tx.ID, "error", err)
		}
	}
	return nil
}

// load reads the persisted document, seeding a fresh one when the store is
// empty or the stored bytes cannot be parsed back. Corruption is recovered
// locally, never surfaced: there is no other recovery path for local state.
func (s *Store) load(ctx context.Context) (core.Document, error) {
	raw, ok, err := s.docs.Load(ctx)
	if err != nil {
		return core.Document{}, fmt.Errorf("load document: %w", err)
	}
	if !ok {
		return s.reseed(ctx, "empty store")
	}

	var doc core.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.WarnContext(ctx, "Persisted document unreadable, reseeding", "error", err)
		return s.reseed(ctx, "parse failure")
	}
	if err := doc.Validate(); err != nil {
		slog.WarnContext(ctx, "Persisted document invalid, reseeding", "error", err)
		return s.reseed(ctx, "validation failure")
	}
	return doc, nil
}

func (s *Store) reseed(ctx context.Context, reason string) (core.Document, error) {
	doc := seedDocument(s.now())
	if err := s.save(ctx, doc); err != nil {
		return core.Document{}, fmt.Errorf("persist seed document: %w", err)
	}
	slog.InfoContext(ctx, "Seeded ledger document",
		"reason", reason,
		"profile_id", doc.Profile.ID,
		"transactions", len(doc.Transactions))
	return doc, nil
}

func (s *Store) save(ctx context.Context, doc core.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := s.docs.Save(ctx, raw); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *Store) newTransactionID() string {
	return fmt.Sprintf("tx_%d", s.now().UnixNano())
}

// deriveName title-cases the local-part of an email address, the stand-in
// for a real signup flow ("john.doe@x.com" -> "John.doe").
func deriveName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return local
	}
	return strings.ToUpper(local[:1]) + local[1:]
}
