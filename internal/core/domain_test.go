package core

import (
	"testing"
	"time"
)

func TestEnumValidity(t *testing.T) {
	for _, k := range []TransactionKind{KindPayment, KindPix, KindCard, KindDeposit, KindWithdrawal} {
		if !k.Valid() {
			t.Fatalf("kind %q should be valid", k)
		}
	}
	if TransactionKind("refund").Valid() {
		t.Fatal("unknown kind should be invalid")
	}
	for _, c := range []Category{CategoryFood, CategoryTravel, CategoryBills, CategoryShopping, CategorySalary, CategoryOthers, CategoryTech} {
		if !c.Valid() {
			t.Fatalf("category %q should be valid", c)
		}
	}
	if Category("crypto").Valid() {
		t.Fatal("unknown category should be invalid")
	}
	if !StatusCompleted.Valid() || Status("void").Valid() {
		t.Fatal("status validity broken")
	}
}

func TestDocumentValidate(t *testing.T) {
	valid := Document{
		Profile: Profile{ID: "user_01", Currency: "USD"},
		Card:    Card{ID: "card_01"},
		Transactions: []Transaction{{
			ID:        "tx_1",
			ProfileID: "user_01",
			Kind:      KindDeposit,
			Amount:    100,
			Category:  CategorySalary,
			Status:    StatusCompleted,
			Date:      time.Now(),
		}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}

	missingProfile := valid
	missingProfile.Profile.ID = ""
	if err := missingProfile.Validate(); err != ErrStorageCorrupt {
		t.Fatalf("expected ErrStorageCorrupt, got %v", err)
	}

	badKind := valid
	badKind.Transactions = []Transaction{{ID: "tx_1", Kind: "refund"}}
	if err := badKind.Validate(); err != ErrStorageCorrupt {
		t.Fatalf("expected ErrStorageCorrupt for bad kind, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	tx := Transaction{
		ID:        "tx_1",
		ProfileID: "user_01",
		Kind:      KindPayment,
		Amount:    -1250,
		Category:  CategoryFood,
		Status:    StatusCompleted,
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}
	tx.Amount = 0
	if err := tx.Validate(); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
