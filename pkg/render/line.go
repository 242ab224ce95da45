package render

import (
	"fmt"
	"io"
	"time"

	"github.com/bcaldwell/txreport/pkg/report"
	influx "github.com/influxdata/influxdb/client/v2"
)

const uncategorized = "uncategorized"

// LineRenderer writes the report as InfluxDB line protocol, ready to pipe
// into `influx -import` or the /write endpoint.
type LineRenderer struct {
	Measurement string
}

func (l LineRenderer) Render(w io.Writer, r *report.Report) error {
	measurement := l.Measurement
	if measurement == "" {
		measurement = "transactions"
	}

	bp, err := influx.NewBatchPoints(influx.BatchPointsConfig{
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("error creating point batch: %w", err)
	}

	fields := map[string]interface{}{
		"balance": r.Balance.InexactFloat64(),
		"count":   len(r.Transactions),
	}
	if r.Options.ShowDuplicates {
		fields["duplicates"] = len(r.Duplicates)
	}

	pt, err := influx.NewPoint(measurement+"_balance", map[string]string{}, fields, r.GeneratedAt)
	if err != nil {
		return fmt.Errorf("error adding balance point: %w", err)
	}
	bp.AddPoint(pt)

	for _, d := range r.Daily {
		t, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return fmt.Errorf("unable to parse date: %w", err)
		}

		pt, err := influx.NewPoint(measurement+"_daily", map[string]string{}, map[string]interface{}{
			"balance": d.Balance.InexactFloat64(),
		}, t)
		if err != nil {
			return fmt.Errorf("error adding daily point: %w", err)
		}
		bp.AddPoint(pt)
	}

	for _, c := range r.Categories {
		ledger := c.Ledger
		if ledger == "" {
			ledger = uncategorized
		}

		pt, err := influx.NewPoint(measurement+"_category", map[string]string{"ledger": ledger}, map[string]interface{}{
			"balance": c.Balance.InexactFloat64(),
			"count":   len(c.Transactions),
		}, r.GeneratedAt)
		if err != nil {
			return fmt.Errorf("error adding category point: %w", err)
		}
		bp.AddPoint(pt)
	}

	for _, pt := range bp.Points() {
		if _, err := fmt.Fprintln(w, pt.PrecisionString(bp.Precision())); err != nil {
			return err
		}
	}

	return nil
}
