package transactions

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/klog"
)

const DefaultMaxPages = 1000

type Retriever struct {
	fetcher      Fetcher
	maxPages     int
	strictFaults bool
}

type RetrieverOption func(*Retriever)

// WithMaxPages caps the number of pages read. A value <= 0 removes the cap.
func WithMaxPages(n int) RetrieverOption {
	return func(r *Retriever) {
		r.maxPages = n
	}
}

// WithStrictFaults makes a non-404 status abort retrieval instead of ending it.
func WithStrictFaults(strict bool) RetrieverOption {
	return func(r *Retriever) {
		r.strictFaults = strict
	}
}

func NewRetriever(fetcher Fetcher, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		fetcher:  fetcher,
		maxPages: DefaultMaxPages,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RetrieveAll reads pages 1, 2, ... until the source answers with a non-success
// status, then checks the number of transactions against the total declared by
// the last page read.
func (r *Retriever) RetrieveAll(ctx context.Context) ([]Transaction, error) {
	transactions := []Transaction{}
	expected := 0
	pages := 0

	for index := 1; ; index++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("retrieval stopped before page %d: %w", index, err)
		}

		page, err := r.fetcher.FetchPage(ctx, index)
		if err != nil {
			var remoteErr *RemoteError
			if !errors.As(err, &remoteErr) {
				return nil, fmt.Errorf("failed to fetch page %d: %w", index, err)
			}

			if !remoteErr.EndOfData() {
				if r.strictFaults {
					return nil, err
				}
				klog.Warningf("Stopping at page %d on status %d, treating it as the end of data", index, remoteErr.StatusCode)
			}

			break
		}

		if r.maxPages > 0 && index > r.maxPages {
			return nil, &PageLimitError{Limit: r.maxPages}
		}

		if pages > 0 && page.TotalCount != expected {
			klog.Warningf("Page %d declares %d transactions, previous page declared %d", index, page.TotalCount, expected)
		}

		pages++
		expected = page.TotalCount
		transactions = append(transactions, page.Transactions...)

		klog.V(1).Infof("Fetched page %d with %d transactions", index, len(page.Transactions))
	}

	klog.Infof("Fetched %d transactions from %d pages", len(transactions), pages)

	if len(transactions) != expected {
		return nil, &CountMismatchError{
			Received:     len(transactions),
			Expected:     expected,
			Transactions: transactions,
		}
	}

	return transactions, nil
}
