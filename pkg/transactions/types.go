package transactions

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	FieldDate    = "Date"
	FieldLedger  = "Ledger"
	FieldAmount  = "Amount"
	FieldCompany = "Company"
)

// Transaction is a single record returned by the transaction source.
// Fields the source sends beyond the promoted ones are kept in Extra and
// written back out on encode.
type Transaction struct {
	Date    string
	Ledger  string
	Amount  decimal.Decimal
	Company string
	Extra   map[string]interface{}
}

// Page is one response of the paginated transaction source.
// {"totalCount":38,"page":1,"transactions":[{"Date":"2013-12-22","Ledger":"Phone & Internet Expense","Amount":"-110.71","Company":"SHAW CABLESYSTEMS CALGARY AB"}]}
type Page struct {
	TotalCount   int           `json:"totalCount"`
	Page         int           `json:"page"`
	Transactions []Transaction `json:"transactions"`
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Transaction{}

	for key, value := range raw {
		var err error

		switch key {
		case FieldDate:
			err = unmarshalString(value, &t.Date)
		case FieldLedger:
			err = unmarshalString(value, &t.Ledger)
		case FieldCompany:
			err = unmarshalString(value, &t.Company)
		case FieldAmount:
			t.Amount, err = parseAmount(value)
		default:
			var v interface{}
			v, err = decodeExtra(value)
			if t.Extra == nil {
				t.Extra = make(map[string]interface{})
			}
			t.Extra[key] = v
		}

		if err != nil {
			return fmt.Errorf("invalid transaction field %s: %w", key, err)
		}
	}

	return nil
}

// MarshalJSON always writes the promoted fields, including ones the source
// left out.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.fields())
}

// Field returns the string form of a named field, extra fields included.
// Unknown fields return an empty string.
func (t Transaction) Field(name string) string {
	switch name {
	case FieldDate:
		return t.Date
	case FieldLedger:
		return t.Ledger
	case FieldCompany:
		return t.Company
	case FieldAmount:
		return t.Amount.String()
	}

	v, ok := t.Extra[name]
	if !ok || v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

// Fingerprint is a hash over every field of the transaction. Two transactions
// have the same fingerprint exactly when all of their fields are equal,
// amounts compared numerically and extra fields independent of order.
// Promoted fields missing from the payload decode to their zero value, so an
// absent Company and "Company":"" fingerprint the same.
func (t Transaction) Fingerprint() string {
	// encoding/json writes map keys sorted, which makes this canonical
	canonical, err := json.Marshal(t.fields())
	if err != nil {
		// extra values come from json decoding so they always re-encode
		canonical = []byte(fmt.Sprintf("%v", t.fields()))
	}

	hash := sha256.Sum256(canonical)
	return hex.EncodeToString(hash[:])
}

// Equal reports whether all fields of both transactions are equal.
func (t Transaction) Equal(other Transaction) bool {
	return t.Fingerprint() == other.Fingerprint()
}

func (t Transaction) fields() map[string]interface{} {
	fields := make(map[string]interface{}, len(t.Extra)+4)
	for key, value := range t.Extra {
		fields[key] = value
	}

	fields[FieldDate] = t.Date
	fields[FieldLedger] = t.Ledger
	fields[FieldCompany] = t.Company
	fields[FieldAmount] = t.Amount.String()

	return fields
}

// decodeExtra keeps numbers as json.Number so they re-encode exactly.
func decodeExtra(value json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()

	var v interface{}
	err := dec.Decode(&v)
	return v, err
}

func unmarshalString(value json.RawMessage, s *string) error {
	if isNull(value) {
		return nil
	}
	return json.Unmarshal(value, s)
}

// parseAmount accepts both "-110.71" and -110.71.
func parseAmount(value json.RawMessage) (decimal.Decimal, error) {
	if isNull(value) || bytes.Equal(bytes.TrimSpace(value), []byte(`""`)) {
		return decimal.Zero, nil
	}

	var amount decimal.Decimal
	err := amount.UnmarshalJSON(value)
	return amount, err
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
