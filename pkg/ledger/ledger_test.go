package ledger

import (
	"encoding/json"
	"testing"

	"github.com/bcaldwell/txreport/pkg/transactions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tr(date, ledger, amount, company string) transactions.Transaction {
	return transactions.Transaction{
		Date:    date,
		Ledger:  ledger,
		Amount:  decimal.RequireFromString(amount),
		Company: company,
	}
}

func fixture() []transactions.Transaction {
	return []transactions.Transaction{
		tr("2013-12-22", "Phone & Internet Expense", "-110.71", "SHAW CABLESYSTEMS"),
		tr("2013-12-21", "Travel Expense, Nonlocal", "-8.1", "BLACK TOP CABS"),
		tr("2013-12-21", "Business Meals & Entertainment Expense", "-9.88", "GUILT & CO."),
		tr("2013-12-22", "Phone & Internet Expense", "-110.71", "SHAW CABLESYSTEMS"),
		tr("2013-12-20", "Travel Expense, Nonlocal", "-7.6", "BLACK TOP CABS"),
		tr("2013-12-19", "", "20000", "PAYMENT"),
		tr("2013-12-21", "Travel Expense, Nonlocal", "-8.1", "BLACK TOP CABS"),
	}
}

func TestPartition(t *testing.T) {
	in := fixture()
	uniques, duplicates := Partition(in)

	assert.Equal(t, []transactions.Transaction{in[0], in[1], in[2], in[4], in[5]}, uniques)
	assert.Equal(t, []transactions.Transaction{in[3], in[6]}, duplicates)
	assert.Len(t, in, 7)
}

func TestPartitionIsIdempotentOnUniques(t *testing.T) {
	uniques, _ := Partition(fixture())
	again, duplicates := Partition(uniques)

	assert.Empty(t, duplicates)
	assert.Equal(t, uniques, again)
}

func TestPartitionComparesAllFields(t *testing.T) {
	a := tr("2013-12-21", "Office", "1", "A")
	b := tr("2013-12-21", "Office", "1", "A")
	b.Extra = map[string]interface{}{"Memo": "second"}

	uniques, duplicates := Partition([]transactions.Transaction{a, b})
	assert.Len(t, uniques, 2)
	assert.Empty(t, duplicates)
}

func TestPartitionKeepsTransactionsDifferingInLargeIDs(t *testing.T) {
	var trs []transactions.Transaction
	require.NoError(t, json.Unmarshal([]byte(`[
		{"Date":"2013-12-20","Ledger":"Office","Amount":"1","Company":"A","Id":9007199254740993},
		{"Date":"2013-12-20","Ledger":"Office","Amount":"1","Company":"A","Id":9007199254740992}
	]`), &trs))

	uniques, duplicates := Partition(trs)
	assert.Len(t, uniques, 2)
	assert.Empty(t, duplicates)
	assert.Equal(t, "2", Balance(uniques, decimal.Zero).String())
}

func TestPartitionEmpty(t *testing.T) {
	uniques, duplicates := Partition(nil)
	assert.Empty(t, uniques)
	assert.Empty(t, duplicates)
}

func TestBalance(t *testing.T) {
	in := fixture()
	want := decimal.RequireFromString("19744.9")

	assert.True(t, want.Equal(Balance(in, decimal.Zero)), Balance(in, decimal.Zero).String())
	assert.True(t, want.Add(decimal.NewFromInt(100)).Equal(Balance(in, decimal.NewFromInt(100))))

	reversed := make([]transactions.Transaction, len(in))
	for i := range in {
		reversed[len(in)-1-i] = in[i]
	}
	assert.True(t, Balance(in, decimal.Zero).Equal(Balance(reversed, decimal.Zero)))

	assert.True(t, Balance(nil, decimal.Zero).IsZero())
}

func TestBalanceIsExact(t *testing.T) {
	in := []transactions.Transaction{
		tr("2013-12-01", "", "0.1", ""),
		tr("2013-12-01", "", "0.2", ""),
	}
	assert.Equal(t, "0.3", Balance(in, decimal.Zero).String())
}

func TestDailyBalances(t *testing.T) {
	got := DailyBalances(fixture())

	require.Len(t, got, 4)
	assert.Equal(t, "2013-12-19", got[0].Date)
	assert.Equal(t, "20000", got[0].Balance.String())
	assert.Equal(t, "2013-12-20", got[1].Date)
	assert.Equal(t, "19992.4", got[1].Balance.String())
	assert.Equal(t, "2013-12-21", got[2].Date)
	assert.Equal(t, "19966.32", got[2].Balance.String())
	assert.Equal(t, "2013-12-22", got[3].Date)
	assert.Equal(t, "19744.9", got[3].Balance.String())

	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Date, got[i].Date)
	}
}

func TestDailyBalancesSameDateKeepsLastRunningTotal(t *testing.T) {
	in := []transactions.Transaction{
		tr("2013-12-01", "", "10", "a"),
		tr("2013-12-01", "", "-3", "b"),
		tr("2013-12-01", "", "5", "c"),
	}

	got := DailyBalances(in)
	require.Len(t, got, 1)
	assert.Equal(t, "12", got[0].Balance.String())
}

func TestDailyBalancesDoesNotReorderInput(t *testing.T) {
	in := fixture()
	DailyBalances(in)
	assert.Equal(t, fixture(), in)
}

func TestGroupBy(t *testing.T) {
	in := fixture()
	groups := GroupBy(in, transactions.FieldLedger)

	assert.Equal(t, []string{
		"Phone & Internet Expense",
		"Travel Expense, Nonlocal",
		"Business Meals & Entertainment Expense",
		"",
	}, groups.Keys())
	assert.Equal(t, 4, groups.Len())
	assert.Equal(t, []transactions.Transaction{in[1], in[4], in[6]}, groups.Get("Travel Expense, Nonlocal"))
	assert.Nil(t, groups.Get("Missing"))
}

func TestGroupByExtraField(t *testing.T) {
	a := tr("2013-12-01", "", "1", "")
	a.Extra = map[string]interface{}{"Account": "chequing"}
	b := tr("2013-12-02", "", "1", "")

	groups := GroupBy([]transactions.Transaction{a, b}, "Account")
	assert.Equal(t, []string{"chequing", ""}, groups.Keys())
}

func TestUngroupKeepsEveryTransaction(t *testing.T) {
	in := fixture()
	out := Ungroup(GroupBy(in, transactions.FieldLedger))

	assert.ElementsMatch(t, in, out)
	assert.Equal(t, []transactions.Transaction{in[0], in[3], in[1], in[4], in[6], in[2], in[5]}, out)
}
