package ledger

import (
	"slices"
	"strings"

	"github.com/bcaldwell/txreport/pkg/transactions"
	"github.com/shopspring/decimal"
)

// DailyBalance is the running balance at the end of a date.
type DailyBalance struct {
	Date    string          `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

func Balance(trs []transactions.Transaction, initial decimal.Decimal) decimal.Decimal {
	total := initial
	for _, t := range trs {
		total = total.Add(t.Amount)
	}

	return total
}

// DailyBalances sorts transactions by date, keeping input order for equal
// dates, and records the running total after the last transaction of each date.
func DailyBalances(trs []transactions.Transaction) []DailyBalance {
	ordered := slices.Clone(trs)
	slices.SortStableFunc(ordered, func(a, b transactions.Transaction) int {
		return strings.Compare(a.Date, b.Date)
	})

	balances := []DailyBalance{}
	runningTotal := decimal.Zero

	for _, t := range ordered {
		runningTotal = runningTotal.Add(t.Amount)

		// same date overwrites the entry with the newer running total
		if n := len(balances); n > 0 && balances[n-1].Date == t.Date {
			balances[n-1].Balance = runningTotal
			continue
		}

		balances = append(balances, DailyBalance{Date: t.Date, Balance: runningTotal})
	}

	return balances
}
