// Package render turns a built report into output. Renderers only format,
// every number they print is computed by the report package.
package render

import (
	"fmt"
	"io"

	"github.com/bcaldwell/txreport/pkg/config"
	"github.com/bcaldwell/txreport/pkg/report"
)

type Renderer interface {
	Render(w io.Writer, r *report.Report) error
}

// New returns the renderer for an output format.
func New(output config.OutputConfig, secrets config.Secrets) (Renderer, error) {
	switch output.Format {
	case "", "table":
		return &TableRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "line":
		return &LineRenderer{Measurement: output.Measurement}, nil
	case "sql":
		return &SQLRenderer{
			DatabaseURL:       secrets.DatabaseURL,
			TransactionsTable: output.SQL.TransactionsTable,
			DailyTable:        output.SQL.DailyTable,
			CategoriesTable:   output.SQL.CategoriesTable,
		}, nil
	}

	return nil, fmt.Errorf("unknown output format %q", output.Format)
}
