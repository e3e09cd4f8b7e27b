package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"futures-risk-calc/internal/domain"
)

const requestTimeout = 10 * time.Second

var errSymbolNotFound = errors.New("symbol not found")

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

func httpGet(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// prioritySymbols are sorted to the front of every symbol list, in this order.
var prioritySymbols = []string{"BTCUSDT", "ETHUSDT", "BNBUSDT", "ADAUSDT", "XRPUSDT", "SOLUSDT"}

// SortSymbols orders major pairs first, then everything else lexicographically.
// The ordering is identical across all venues.
func SortSymbols(symbols []domain.Symbol) {
	rank := make(map[string]int, len(prioritySymbols))
	for i, s := range prioritySymbols {
		rank[s] = i
	}

	sort.SliceStable(symbols, func(i, j int) bool {
		ri, iOK := rank[symbols[i].Symbol]
		rj, jOK := rank[symbols[j].Symbol]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return symbols[i].Symbol < symbols[j].Symbol
		}
	})
}
