package ledger

import "github.com/bcaldwell/txreport/pkg/transactions"

// Groups maps a field value to the transactions sharing it. Keys keep the
// order in which they were first seen.
type Groups struct {
	keys    []string
	members map[string][]transactions.Transaction
}

func NewGroups() *Groups {
	return &Groups{members: make(map[string][]transactions.Transaction)}
}

func (g *Groups) Add(key string, t transactions.Transaction) {
	if _, ok := g.members[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.members[key] = append(g.members[key], t)
}

func (g *Groups) Keys() []string {
	return append([]string(nil), g.keys...)
}

func (g *Groups) Get(key string) []transactions.Transaction {
	return g.members[key]
}

func (g *Groups) Len() int {
	return len(g.keys)
}

// GroupBy groups transactions on the value of a field, e.g. transactions.FieldLedger.
func GroupBy(trs []transactions.Transaction, field string) *Groups {
	groups := NewGroups()
	for _, t := range trs {
		groups.Add(t.Field(field), t)
	}

	return groups
}

// Ungroup flattens groups back into a list, group by group in key order.
func Ungroup(groups *Groups) []transactions.Transaction {
	trs := []transactions.Transaction{}
	for _, key := range groups.keys {
		trs = append(trs, groups.members[key]...)
	}

	return trs
}
