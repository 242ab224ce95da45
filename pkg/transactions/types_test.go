package transactions

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionUnmarshal(t *testing.T) {
	var tr Transaction
	err := json.Unmarshal([]byte(`{"Date":"2013-12-22","Ledger":"Phone & Internet Expense","Amount":"-110.71","Company":"SHAW CABLESYSTEMS CALGARY AB","Memo":"monthly","Ref":7}`), &tr)
	require.NoError(t, err)

	assert.Equal(t, "2013-12-22", tr.Date)
	assert.Equal(t, "Phone & Internet Expense", tr.Ledger)
	assert.Equal(t, "SHAW CABLESYSTEMS CALGARY AB", tr.Company)
	assert.True(t, decimal.RequireFromString("-110.71").Equal(tr.Amount))
	assert.Equal(t, "monthly", tr.Extra["Memo"])
	assert.Equal(t, json.Number("7"), tr.Extra["Ref"])
}

func TestTransactionUnmarshalNumericAmount(t *testing.T) {
	var tr Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"Date":"2013-12-22","Amount":5000}`), &tr))
	assert.Equal(t, "5000", tr.Amount.String())

	require.NoError(t, json.Unmarshal([]byte(`{"Date":"2013-12-22","Amount":""}`), &tr))
	assert.True(t, tr.Amount.IsZero())
	assert.Nil(t, tr.Extra)
}

func TestTransactionUnmarshalInvalidAmount(t *testing.T) {
	var tr Transaction
	err := json.Unmarshal([]byte(`{"Amount":"ten"}`), &tr)
	assert.Error(t, err)
}

func TestTransactionExtraFieldsRoundTrip(t *testing.T) {
	in := `{"Amount":"-5.5","Company":"ACME","Date":"2013-12-20","Ledger":"Office","Memo":"keep me"}`

	var tr Transaction
	require.NoError(t, json.Unmarshal([]byte(in), &tr))

	out, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestTransactionField(t *testing.T) {
	tr := Transaction{
		Date:    "2013-12-20",
		Ledger:  "Office",
		Amount:  decimal.RequireFromString("12.50"),
		Company: "ACME",
		Extra:   map[string]interface{}{"Memo": "note", "Ref": 3.0},
	}

	assert.Equal(t, "2013-12-20", tr.Field(FieldDate))
	assert.Equal(t, "Office", tr.Field(FieldLedger))
	assert.Equal(t, "ACME", tr.Field(FieldCompany))
	assert.Equal(t, "12.5", tr.Field(FieldAmount))
	assert.Equal(t, "note", tr.Field("Memo"))
	assert.Equal(t, "3", tr.Field("Ref"))
	assert.Equal(t, "", tr.Field("Missing"))
}

func TestTransactionEqual(t *testing.T) {
	a := Transaction{Date: "2013-12-20", Ledger: "Office", Amount: decimal.RequireFromString("12.50"), Company: "ACME",
		Extra: map[string]interface{}{"a": "1", "b": "2"}}
	b := Transaction{Date: "2013-12-20", Ledger: "Office", Amount: decimal.RequireFromString("12.5"), Company: "ACME",
		Extra: map[string]interface{}{"b": "2", "a": "1"}}

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Company = "ACME INC"
	assert.False(t, a.Equal(b))

	c := a
	c.Extra = map[string]interface{}{"a": "1"}
	assert.False(t, a.Equal(c))
}

func TestTransactionExtraNumbersKeepPrecision(t *testing.T) {
	in := `{"Amount":"1","Company":"ACME","Date":"2013-12-20","Ledger":"Office","Id":9007199254740993,"Rate":0.10000000000000000001}`

	var a Transaction
	require.NoError(t, json.Unmarshal([]byte(in), &a))

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"Id":9007199254740993`)
	assert.Contains(t, string(out), `"Rate":0.10000000000000000001`)
	assert.Equal(t, "9007199254740993", a.Field("Id"))

	var b Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"Amount":"1","Company":"ACME","Date":"2013-12-20","Ledger":"Office","Id":9007199254740992,"Rate":0.10000000000000000001}`), &b))
	assert.False(t, a.Equal(b))
}

func TestTransactionMissingPromotedFieldsDecodeEmpty(t *testing.T) {
	var absent, empty Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"Date":"2013-12-20","Amount":"1"}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"Date":"2013-12-20","Amount":"1","Company":"","Ledger":""}`), &empty))

	assert.True(t, absent.Equal(empty))

	out, err := json.Marshal(absent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Amount":"1","Company":"","Date":"2013-12-20","Ledger":""}`, string(out))
}
