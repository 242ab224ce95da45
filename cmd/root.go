package cmd

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bcaldwell/txreport/pkg/config"
	"github.com/bcaldwell/txreport/pkg/report"
	"github.com/spf13/cobra"
	"k8s.io/klog"
)

var (
	configFile  string
	secretsFile string

	reportFlags report.Options

	format       string
	baseURL      string
	maxPages     int
	strictFaults bool
	schedule     string
)

var rootCmd = &cobra.Command{
	Use:   "txreport",
	Short: "Download paged transactions and report balances",
	Long: `txreport downloads every page of transactions from the source, checks that
the number received matches the total the source declares and prints the
overall balance plus any of the optional reports.

  txreport                      # overall balance
  txreport -u -d -a             # drop duplicates, list them, daily balances
  txreport -g -o json           # categorized report as JSON
  txreport -a -o line           # daily balances as InfluxDB line protocol
  txreport --schedule "@every 1h"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	defer klog.Flush()

	if err := rootCmd.Execute(); err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
}

func init() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	flags := rootCmd.Flags()

	flags.StringVar(&configFile, "config", "./config.yml", "configuration file")
	flags.StringVar(&secretsFile, "secrets", "./secrets.ejson", "ejson secrets file")

	flags.BoolVarP(&reportFlags.Clean, "clean", "c", false, "clean up the company names")
	flags.BoolVarP(&reportFlags.Unique, "unique", "u", false, "keep only the unique transactions")
	flags.BoolVarP(&reportFlags.ShowDuplicates, "duplicates", "d", false, "print out the duplicated transactions")
	flags.BoolVarP(&reportFlags.Accumulate, "accumulate", "a", false, "print out the daily accumulated balances")
	flags.BoolVarP(&reportFlags.ShowAll, "uncategorized", "l", false, "print out all transactions as received")
	flags.BoolVarP(&reportFlags.ShowCategorized, "categorized", "g", false, "print out all transactions by expense category")

	flags.StringVarP(&format, "format", "o", "", fmt.Sprintf("output format, one of %v", config.Formats))
	flags.StringVar(&baseURL, "base-url", "", "transaction source base url, pages are read from <base-url><page>.json")
	flags.IntVar(&maxPages, "max-pages", 0, "stop with an error after this many pages, negative for no limit")
	flags.BoolVar(&strictFaults, "strict", false, "fail on a page error other than 404 instead of treating it as the last page")
	flags.StringVar(&schedule, "schedule", "", "cron spec to rerun the report on instead of running once")
}

func runRoot(cmd *cobra.Command, args []string) error {
	err := config.ReadConfig(config.ConfigEnvVar, configFile, secretsFile)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	c := config.CurrentConfig()
	applyFlags(cmd, c)

	if err := c.Validate(); err != nil {
		return err
	}

	if err := config.CurrentSecrets().Validate(); err != nil {
		return err
	}

	runner, err := NewReportRunner(c, *config.CurrentSecrets(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.UpdateFrequency == "" {
		return runner.Run(ctx)
	}

	return runScheduled(ctx, c.UpdateFrequency, runner)
}

// applyFlags layers the command line over the config file. Report flags can
// only switch sections on.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	c.Report.Clean = c.Report.Clean || reportFlags.Clean
	c.Report.Unique = c.Report.Unique || reportFlags.Unique
	c.Report.ShowDuplicates = c.Report.ShowDuplicates || reportFlags.ShowDuplicates
	c.Report.Accumulate = c.Report.Accumulate || reportFlags.Accumulate
	c.Report.ShowAll = c.Report.ShowAll || reportFlags.ShowAll
	c.Report.ShowCategorized = c.Report.ShowCategorized || reportFlags.ShowCategorized

	flags := cmd.Flags()

	if flags.Changed("format") {
		c.Output.Format = format
	}
	if flags.Changed("base-url") {
		c.Source.BaseURL = baseURL
	}
	if flags.Changed("max-pages") {
		c.Source.MaxPages = maxPages
	}
	if flags.Changed("strict") {
		c.Source.StrictFaults = strictFaults
	}
	if flags.Changed("schedule") {
		c.UpdateFrequency = schedule
	}
}
