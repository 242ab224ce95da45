package postgresutils

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const DefaultDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"

// NewStatementDB returns a bun DB for building postgres statements. The
// connector is lazy and nothing here dials the database.
func NewStatementDB(dsn string) *bun.DB {
	if dsn == "" {
		dsn = DefaultDSN
	}

	// WithDSN panics on an invalid dsn, config validates it first
	pgconn := pgdriver.NewConnector(pgdriver.WithDSN(dsn))

	return bun.NewDB(sql.OpenDB(pgconn), pgdialect.New())
}

// TableSetString builds "col = EXCLUDED.col" for every column of model except
// exclude, for ON CONFLICT DO UPDATE clauses.
func TableSetString(db *bun.DB, model interface{}, exclude ...string) string {
	t := db.Dialect().Tables().Get(reflect.TypeOf(model).Elem())
	if t == nil {
		return ""
	}

	parts := []string{}

	for _, f := range t.Fields {
		if isInArray(exclude, f.Name) {
			continue
		}

		parts = append(parts, fmt.Sprintf("%s = EXCLUDED.%s", f.Name, f.Name))
	}

	return strings.Join(parts, ", ")
}

func isInArray(arr []string, s string) bool {
	for _, i := range arr {
		if i == s {
			return true
		}
	}

	return false
}
