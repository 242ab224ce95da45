package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/bcaldwell/txreport/pkg/report"
	"github.com/bcaldwell/txreport/pkg/transactions"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

const ruleWidth = 80

var (
	headlineColor = color.New(color.FgCyan, color.Bold)
	balanceColor  = color.New(color.Bold)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
)

// TableRenderer prints the report as console tables.
type TableRenderer struct{}

func (TableRenderer) Render(w io.Writer, r *report.Report) error {
	opts := r.Options

	if opts.ShowDuplicates {
		headline(w, "Duplicate transactions")
		fmt.Fprintln(w, transactionTable(r.Duplicates))
	}

	balanceColor.Fprintf(w, "\nOverall Balance: %s\n", money(r.Balance))

	if opts.Accumulate {
		headline(w, "Daily balances")
		rows := make([][]string, 0, len(r.Daily))
		for _, d := range r.Daily {
			rows = append(rows, []string{d.Date, money(d.Balance)})
		}
		fmt.Fprintln(w, renderTable([]string{"Date", "Amount"}, rows, 1))
	}

	if opts.ShowAll {
		headline(w, "List of transactions")
		fmt.Fprintln(w, transactionTable(r.All))
	}

	if opts.ShowCategorized {
		headline(w, "List of transactions by expense category")

		summary := make([][]string, 0, len(r.Categories))
		for _, c := range r.Categories {
			balanceColor.Fprintf(w, "\nCategory: %s\nBalance: %s\n\n", c.Ledger, money(c.Balance))
			fmt.Fprintln(w, transactionTable(c.Transactions))

			summary = append(summary, []string{c.Ledger, money(c.Balance)})
		}

		headline(w, "Summary of categorized expenses")
		fmt.Fprintln(w, renderTable([]string{"Ledger", "Balance"}, summary, 1))

		if r.CategorizedTotal != nil {
			balanceColor.Fprintf(w, "\nTotal: %s\n", money(*r.CategorizedTotal))
		}
	}

	return nil
}

func headline(w io.Writer, title string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(w, "\n\n%s\n", rule)
	headlineColor.Fprintln(w, title)
	fmt.Fprintf(w, "%s\n\n", rule)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// transactionTable has a column per promoted field followed by the extra
// fields of any transaction in sorted order.
func transactionTable(trs []transactions.Transaction) string {
	headers := []string{transactions.FieldDate, transactions.FieldLedger, transactions.FieldAmount, transactions.FieldCompany}
	headers = append(headers, extraFields(trs)...)

	rows := make([][]string, 0, len(trs))
	for _, t := range trs {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = t.Field(h)
		}
		row[2] = money(t.Amount)

		rows = append(rows, row)
	}

	return renderTable(headers, rows, 2)
}

func extraFields(trs []transactions.Transaction) []string {
	seen := map[string]struct{}{}
	fields := []string{}

	for _, t := range trs {
		for key := range t.Extra {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			fields = append(fields, key)
		}
	}

	slices.Sort(fields)
	return fields
}

// renderTable right aligns the column at amountColumn.
func renderTable(headers []string, rows [][]string, amountColumn int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == amountColumn && row != table.HeaderRow {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})

	return t.Render()
}
