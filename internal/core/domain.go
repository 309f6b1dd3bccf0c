package core

import (
	"errors"
	"time"
)

const (
	KindPayment    TransactionKind = "payment"
	KindPix        TransactionKind = "pix"
	KindCard       TransactionKind = "card"
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

const (
	CategoryFood     Category = "food"
	CategoryTravel   Category = "travel"
	CategoryBills    Category = "bills"
	CategoryShopping Category = "shopping"
	CategorySalary   Category = "salary"
	CategoryOthers   Category = "others"
	CategoryTech     Category = "tech"
)

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const (
	SchemeVisa       CardScheme = "visa"
	SchemeMastercard CardScheme = "mastercard"
)

type (
	TransactionKind string
	Category        string
	Status          string
	CardScheme      string

	// Profile is the single account identity. Balance is in minor units
	// (cents) and is only ever changed by ledger operations.
	Profile struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatarUrl,omitempty"`
		Balance   int64  `json:"balance"`
		Currency  string `json:"currency"`
	}

	// Transaction is immutable once appended. Amount is in minor units,
	// negative for outflows.
	Transaction struct {
		ID          string          `json:"id"`
		ProfileID   string          `json:"userId"`
		Kind        TransactionKind `json:"type"`
		Amount      int64           `json:"amount"`
		Currency    string          `json:"currency"`
		Date        time.Time       `json:"date"`
		Description string          `json:"description"`
		Category    Category        `json:"category"`
		Merchant    string          `json:"merchant,omitempty"`
		Status      Status          `json:"status"`
	}

	// Card is the single virtual payment instrument. Only Frozen changes
	// after seeding.
	Card struct {
		ID        string     `json:"id"`
		ProfileID string     `json:"userId"`
		Number    string     `json:"cardNumber"`
		Expiry    string     `json:"expiry"`
		CVV       string     `json:"cvv"`
		Holder    string     `json:"holderName"`
		Frozen    bool       `json:"frozen"`
		Scheme    CardScheme `json:"scheme"`
	}

	// Document is the whole persisted aggregate. Every mutation loads it,
	// applies one change and writes it back in full.
	Document struct {
		Profile      Profile       `json:"profile"`
		Transactions []Transaction `json:"transactions"`
		Card         Card          `json:"card"`
	}

	// ProfileUpdate carries the optional fields of a shallow profile merge.
	// Nil fields are left untouched.
	ProfileUpdate struct {
		Name      *string `json:"name,omitempty"`
		Email     *string `json:"email,omitempty"`
		AvatarURL *string `json:"avatarUrl,omitempty"`
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNotFound           = errors.New("not found")
	ErrStorageCorrupt     = errors.New("persisted document corrupt")
	ErrServiceUnavailable = errors.New("external service unavailable")
)

func (k TransactionKind) Valid() bool {
	switch k {
	case KindPayment, KindPix, KindCard, KindDeposit, KindWithdrawal:
		return true
	}
	return false
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryBills, CategoryShopping,
		CategorySalary, CategoryOthers, CategoryTech:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Validate reports whether the document is usable as a ledger. A document
// that fails this check is treated as corrupt and reseeded, never surfaced.
func (d Document) Validate() error {
	if d.Profile.ID == "" {
		return ErrStorageCorrupt
	}
	if d.Card.ID == "" {
		return ErrStorageCorrupt
	}
	for _, tx := range d.Transactions {
		if tx.ID == "" || !tx.Kind.Valid() {
			return ErrStorageCorrupt
		}
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.ID == "" || t.ProfileID == "" {
		return ErrStorageCorrupt
	}
	if !t.Kind.Valid() || !t.Category.Valid() || !t.Status.Valid() {
		return ErrStorageCorrupt
	}
	if t.Amount == 0 {
		return ErrInvalidAmount
	}
	return nil
}
