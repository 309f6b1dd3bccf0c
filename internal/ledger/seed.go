package ledger

import (
	"time"

	"finnova/internal/core"
)

const day = 24 * time.Hour

// seedDocument builds the initial ledger: one profile, a fixed spread of
// historical transactions over the past ~20 days and one virtual card. Used
// on first access and whenever the persisted document cannot be read back.
func seedDocument(now time.Time) core.Document {
	profile := core.Profile{
		ID:       "user_01",
		Name:     "Mariana Silva",
		Email:    "demo@finnova.com",
		Balance:  4532050, // $45,320.50
		Currency: "USD",
		// No avatar, the profile starts empty on purpose.
	}

	txs := []core.Transaction{
		{
			ID:          "tx_01",
			ProfileID:   profile.ID,
			Kind:        core.KindPayment,
			Amount:      -1250, // $12.50
			Currency:    "USD",
			Date:        now.Add(-day / 10),
			Description: "Downtown Coffee",
			Category:    core.CategoryFood,
			Merchant:    "Cafe Central",
			Status:      core.StatusCompleted,
		},
		{
			ID:          "tx_02",
			ProfileID:   profile.ID,
			Kind:        core.KindCard,
			Amount:      -1499, // $14.99
			Currency:    "USD",
			Date:        now.Add(-2 * day),
			Description: "Spotify Premium",
			Category:    core.CategoryTech,
			Merchant:    "Spotify",
			Status:      core.StatusCompleted,
		},
		{
			ID:          "tx_03",
			ProfileID:   profile.ID,
			Kind:        core.KindPayment,
			Amount:      -12000, // $120.00
			Currency:    "USD",
			Date:        now.Add(-5 * day),
			Description: "Transfer to John",
			Category:    core.CategoryOthers,
			Status:      core.StatusCompleted,
		},
		{
			ID:          "tx_04",
			ProfileID:   profile.ID,
			Kind:        core.KindDeposit,
			Amount:      500000, // $5,000.00
			Currency:    "USD",
			Date:        now.Add(-12 * day),
			Description: "Monthly Salary",
			Category:    core.CategorySalary,
			Status:      core.StatusCompleted,
		},
		{
			ID:          "tx_05",
			ProfileID:   profile.ID,
			Kind:        core.KindCard,
			Amount:      -4500, // $45.00
			Currency:    "USD",
			Date:        now.Add(-15 * day),
			Description: "Uber Trip",
			Category:    core.CategoryTravel,
			Merchant:    "Uber",
			Status:      core.StatusCompleted,
		},
		{
			ID:          "tx_06",
			ProfileID:   profile.ID,
			Kind:        core.KindPayment,
			Amount:      -8500, // $85.00
			Currency:    "USD",
			Date:        now.Add(-20 * day),
			Description: "Walmart Grocery",
			Category:    core.CategoryFood,
			Merchant:    "Walmart",
			Status:      core.StatusCompleted,
		},
	}

	card := core.Card{
		ID:        "card_01",
		ProfileID: profile.ID,
		Number:    "4532 1290 8834 5129",
		Expiry:    "12/28",
		CVV:       "452",
		Holder:    "ALEXANDER WEBER",
		Frozen:    false,
		Scheme:    core.SchemeVisa,
	}

	return core.Document{
		Profile:      profile,
		Transactions: txs,
		Card:         card,
	}
}
