// Package ledger holds the aggregations run over a retrieved transaction set.
// None of the functions modify their input.
package ledger

import "github.com/bcaldwell/txreport/pkg/transactions"

// Partition splits transactions into the first occurrence of every distinct
// transaction and every later copy of one. Both keep input order.
func Partition(trs []transactions.Transaction) (uniques, duplicates []transactions.Transaction) {
	uniques = []transactions.Transaction{}
	duplicates = []transactions.Transaction{}

	seen := make(map[string]struct{}, len(trs))

	for _, t := range trs {
		fingerprint := t.Fingerprint()
		if _, ok := seen[fingerprint]; ok {
			duplicates = append(duplicates, t)
			continue
		}

		seen[fingerprint] = struct{}{}
		uniques = append(uniques, t)
	}

	return uniques, duplicates
}
