// Package rates fetches crypto spot prices from the CoinGecko simple
// price API. The endpoint is unauthenticated and flaky under rate
// limiting, so every failure path degrades to a hardcoded snapshot
// instead of an error: the dashboard always has numbers to show.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultURL = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin,ethereum&vs_currencies=brl,usd"

// AssetRate is the spot price of one asset in both quote currencies.
type AssetRate struct {
	BRL float64 `json:"brl"`
	USD float64 `json:"usd"`
}

// Table holds the rates the dashboard displays.
type Table struct {
	Bitcoin  AssetRate `json:"bitcoin"`
	Ethereum AssetRate `json:"ethereum"`
}

// fallbackTable is served whenever the live fetch fails.
var fallbackTable = Table{
	Bitcoin:  AssetRate{BRL: 340000, USD: 68000},
	Ethereum: AssetRate{BRL: 18000, USD: 3600},
}

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string) *Client {
	if url == "" {
		url = defaultURL
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch returns the current rate table. It never returns an error:
// transport failures, bad statuses, undecodable bodies and empty tables
// all fall back to the static snapshot, logged at warn level.
func (c *Client) Fetch(ctx context.Context) Table {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		slog.WarnContext(ctx, "Rates request malformed, using fallback", "error", err)
		return fallbackTable
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "Rates fetch failed, using fallback", "error", err)
		return fallbackTable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.WarnContext(ctx, "Rates fetch failed, using fallback",
			"error", fmt.Sprintf("unexpected status %d", resp.StatusCode))
		return fallbackTable
	}

	var table Table
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		slog.WarnContext(ctx, "Rates response undecodable, using fallback", "error", err)
		return fallbackTable
	}

	// A decodable body with missing ids comes back zeroed; treat it as a
	// failed fetch rather than showing free bitcoin.
	if table.Bitcoin.USD == 0 || table.Ethereum.USD == 0 {
		slog.WarnContext(ctx, "Rates response incomplete, using fallback")
		return fallbackTable
	}

	return table
}
