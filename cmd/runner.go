package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bcaldwell/txreport/pkg/config"
	"github.com/bcaldwell/txreport/pkg/render"
	"github.com/bcaldwell/txreport/pkg/report"
	"github.com/bcaldwell/txreport/pkg/transactions"
	"github.com/robfig/cron"
	"k8s.io/klog"
)

type Runner interface {
	Run(ctx context.Context) error
}

// ReportRunner retrieves the transactions, builds the report and renders it.
type ReportRunner struct {
	retriever *transactions.Retriever
	renderer  render.Renderer
	options   report.Options
	out       io.Writer
}

func NewReportRunner(c *config.Config, secrets config.Secrets, out io.Writer) (*ReportRunner, error) {
	timeout, err := c.Source.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(c.Output, secrets)
	if err != nil {
		return nil, err
	}

	fetcher := transactions.NewHTTPFetcher(c.Source.BaseURL, c.Source.Suffix, timeout)

	return &ReportRunner{
		retriever: transactions.NewRetriever(fetcher,
			transactions.WithMaxPages(c.Source.MaxPages),
			transactions.WithStrictFaults(c.Source.StrictFaults),
		),
		renderer: renderer,
		options: report.Options{
			Clean:           c.Report.Clean,
			Unique:          c.Report.Unique,
			ShowDuplicates:  c.Report.ShowDuplicates,
			Accumulate:      c.Report.Accumulate,
			ShowAll:         c.Report.ShowAll,
			ShowCategorized: c.Report.ShowCategorized,
		},
		out: out,
	}, nil
}

func (r *ReportRunner) Run(ctx context.Context) error {
	runID := report.NewRunID()
	klog.Infof("Starting run %s at %s", runID, time.Now().Format(time.RFC850))

	trs, err := r.retriever.RetrieveAll(ctx)
	if err != nil {
		return fmt.Errorf("run %s failed to retrieve transactions: %w", runID, err)
	}

	rep := report.BuildRun(runID, trs, r.options)
	klog.V(1).Infof("Built report %s from %d transactions", rep.RunID, len(trs))

	return r.renderer.Render(r.out, rep)
}

// runScheduled runs once immediately and then on every tick of spec until ctx
// is done. A failed run is logged and the schedule continues.
func runScheduled(ctx context.Context, spec string, runner Runner) error {
	var running sync.Mutex

	run := func() {
		if !running.TryLock() {
			klog.Warningf("Previous run still in progress, skipping this one")
			return
		}
		defer running.Unlock()

		if err := runner.Run(ctx); err != nil {
			klog.Errorf("%v", err)
		}
	}

	run()

	c := cron.New()
	if err := c.AddFunc(spec, run); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	c.Start()
	defer c.Stop()

	<-ctx.Done()

	return nil
}
