package render

import (
	"fmt"
	"io"
	"time"

	"github.com/bcaldwell/txreport/pkg/postgresutils"
	"github.com/bcaldwell/txreport/pkg/report"
	"github.com/bcaldwell/txreport/pkg/transactions"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type SQLTransaction struct {
	bun.BaseModel `bun:"table:transactions"`
	Key           string `bun:",pk"`
	Date          string
	Ledger        string
	Company       string
	Amount        decimal.Decimal        `bun:"type:numeric"`
	Fields        map[string]interface{} `bun:"type:jsonb"`
	RunID         string
	UpdatedAt     time.Time
}

type SQLDailyBalance struct {
	bun.BaseModel `bun:"table:daily_balances"`
	Date          string          `bun:",pk"`
	Balance       decimal.Decimal `bun:"type:numeric"`
	RunID         string
	UpdatedAt     time.Time
}

type SQLCategoryBalance struct {
	bun.BaseModel `bun:"table:category_balances"`
	Ledger        string          `bun:",pk"`
	Balance       decimal.Decimal `bun:"type:numeric"`
	Count         int
	RunID         string
	UpdatedAt     time.Time
}

// SQLRenderer writes postgres statements that create the tables and upsert
// the report into them. Transactions are keyed by fingerprint so rerunning
// the output over the same data is idempotent. Dates are kept as the text the
// source sent since it may be empty or not ISO formatted.
type SQLRenderer struct {
	DatabaseURL       string
	TransactionsTable string
	DailyTable        string
	CategoriesTable   string
}

func (s SQLRenderer) Render(w io.Writer, r *report.Report) error {
	db := postgresutils.NewStatementDB(s.DatabaseURL)
	defer db.Close()

	statements := []schema.QueryAppender{}

	transactionsModel := (*SQLTransaction)(nil)
	transactionsTable := tableName(s.TransactionsTable, "transactions")
	rows := sqlTransactions(r)

	statements = append(statements, db.NewCreateTable().Model(transactionsModel).ModelTableExpr(transactionsTable).IfNotExists())
	if len(rows) > 0 {
		statements = append(statements, db.NewInsert().
			Model(&rows).
			ModelTableExpr(transactionsTable).
			On("CONFLICT (key) DO UPDATE").
			Set(postgresutils.TableSetString(db, transactionsModel, "key")))
	}

	if len(r.Daily) > 0 {
		model := (*SQLDailyBalance)(nil)
		table := tableName(s.DailyTable, "daily_balances")

		daily := make([]SQLDailyBalance, 0, len(r.Daily))
		for _, d := range r.Daily {
			daily = append(daily, SQLDailyBalance{
				Date:      d.Date,
				Balance:   d.Balance,
				RunID:     r.RunID,
				UpdatedAt: r.GeneratedAt,
			})
		}

		statements = append(statements,
			db.NewCreateTable().Model(model).ModelTableExpr(table).IfNotExists(),
			db.NewInsert().
				Model(&daily).
				ModelTableExpr(table).
				On("CONFLICT (date) DO UPDATE").
				Set(postgresutils.TableSetString(db, model, "date")),
		)
	}

	if len(r.Categories) > 0 {
		model := (*SQLCategoryBalance)(nil)
		table := tableName(s.CategoriesTable, "category_balances")

		categories := make([]SQLCategoryBalance, 0, len(r.Categories))
		for _, c := range r.Categories {
			categories = append(categories, SQLCategoryBalance{
				Ledger:    c.Ledger,
				Balance:   c.Balance,
				Count:     len(c.Transactions),
				RunID:     r.RunID,
				UpdatedAt: r.GeneratedAt,
			})
		}

		statements = append(statements,
			db.NewCreateTable().Model(model).ModelTableExpr(table).IfNotExists(),
			db.NewInsert().
				Model(&categories).
				ModelTableExpr(table).
				On("CONFLICT (ledger) DO UPDATE").
				Set(postgresutils.TableSetString(db, model, "ledger")),
		)
	}

	fmt.Fprintln(w, "BEGIN;")
	for _, statement := range statements {
		b, err := statement.AppendQuery(db.Formatter(), nil)
		if err != nil {
			return fmt.Errorf("failed to build sql statement: %w", err)
		}

		fmt.Fprintf(w, "%s;\n", b)
	}
	fmt.Fprintln(w, "COMMIT;")

	return nil
}

// sqlTransactions keeps the first of every duplicate, one statement cannot
// upsert the same key twice.
func sqlTransactions(r *report.Report) []SQLTransaction {
	rows := make([]SQLTransaction, 0, len(r.Transactions))
	seen := map[string]struct{}{}

	for _, t := range r.Transactions {
		row := toSQLTransaction(t, r)
		if _, ok := seen[row.Key]; ok {
			continue
		}

		seen[row.Key] = struct{}{}
		rows = append(rows, row)
	}

	return rows
}

func toSQLTransaction(t transactions.Transaction, r *report.Report) SQLTransaction {
	fields := make(map[string]interface{}, len(t.Extra))
	for key, value := range t.Extra {
		fields[key] = value
	}

	return SQLTransaction{
		Key:       t.Fingerprint(),
		Date:      t.Date,
		Ledger:    t.Ledger,
		Company:   t.Company,
		Amount:    t.Amount,
		Fields:    fields,
		RunID:     r.RunID,
		UpdatedAt: r.GeneratedAt,
	}
}

func tableName(configured, fallback string) string {
	if configured == "" {
		return fallback
	}
	return configured
}
