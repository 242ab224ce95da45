package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bcaldwell/txreport/pkg/report"
)

type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, r *report.Report) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report as JSON: %w", err)
	}

	return nil
}
