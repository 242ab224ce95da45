package report

import (
	"time"

	"github.com/bcaldwell/txreport/pkg/ledger"
	"github.com/bcaldwell/txreport/pkg/transactions"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"k8s.io/klog"
)

// Options selects the optional sections of a report.
type Options struct {
	Clean           bool `json:"clean"`
	Unique          bool `json:"unique"`
	ShowDuplicates  bool `json:"showDuplicates"`
	Accumulate      bool `json:"accumulate"`
	ShowAll         bool `json:"showAll"`
	ShowCategorized bool `json:"showCategorized"`
}

type Category struct {
	Ledger       string                     `json:"ledger"`
	Balance      decimal.Decimal            `json:"balance"`
	Transactions []transactions.Transaction `json:"transactions"`
}

// Report is the data behind every rendered output. Sections that were not
// requested are left nil.
type Report struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`
	Options     Options   `json:"options"`

	// Transactions is the working set after cleaning and, if requested,
	// dropping duplicates.
	Transactions []transactions.Transaction `json:"-"`

	Balance    decimal.Decimal            `json:"balance"`
	Duplicates []transactions.Transaction `json:"duplicates,omitempty"`
	Daily      []ledger.DailyBalance      `json:"daily,omitempty"`
	All        []transactions.Transaction `json:"transactions,omitempty"`
	Categories []Category                 `json:"categories,omitempty"`
	// CategorizedTotal is the sum of the category balances.
	CategorizedTotal *decimal.Decimal `json:"categorizedTotal,omitempty"`
}

// Build runs the aggregation stages in order: clean, partition, balance,
// daily balances, full list, categories.
func Build(trs []transactions.Transaction, opts Options) *Report {
	return BuildRun(NewRunID(), trs, opts)
}

func NewRunID() string {
	return uuid.New().String()
}

// BuildRun is Build for a run whose id was assigned before retrieval.
func BuildRun(runID string, trs []transactions.Transaction, opts Options) *Report {
	r := &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Options:     opts,
	}

	working := trs
	if opts.Clean {
		working = CleanCompanyNames(working)
	}

	if opts.ShowDuplicates || opts.Unique {
		uniques, duplicates := ledger.Partition(working)
		klog.V(1).Infof("Found %d duplicate transactions", len(duplicates))

		if opts.ShowDuplicates {
			r.Duplicates = duplicates
		}
		if opts.Unique {
			working = uniques
		}
	}

	r.Transactions = working
	r.Balance = ledger.Balance(working, decimal.Zero)

	if opts.Accumulate {
		r.Daily = ledger.DailyBalances(working)
	}

	if opts.ShowAll {
		r.All = working
	}

	if opts.ShowCategorized {
		r.Categories, r.CategorizedTotal = categorize(working)
	}

	return r
}

func categorize(trs []transactions.Transaction) ([]Category, *decimal.Decimal) {
	groups := ledger.GroupBy(trs, transactions.FieldLedger)

	categories := make([]Category, 0, groups.Len())
	total := decimal.Zero

	for _, key := range groups.Keys() {
		members := groups.Get(key)
		balance := ledger.Balance(members, decimal.Zero)
		total = total.Add(balance)

		categories = append(categories, Category{
			Ledger:       key,
			Balance:      balance,
			Transactions: members,
		})
	}

	return categories, &total
}
