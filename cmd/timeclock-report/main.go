package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/w1ngnutt/spf-time/internal/timeclock/report"
	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
	"github.com/w1ngnutt/spf-time/pkg/config"
	"github.com/w1ngnutt/spf-time/pkg/errors"
)

var (
	csvOutput  bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "timeclock-report <weeks>",
	Short: "Generate time tracking reports",
	Long: `Generate time tracking reports over complete payroll weeks.

The report always covers closed weeks: the current, in-progress week is
never included.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func run(cmd *cobra.Command, args []string) error {
	weeks, err := strconv.Atoi(args[0])
	if err != nil || weeks < 1 {
		fmt.Fprintln(os.Stderr, "Error: Number of weeks must be at least 1")
		os.Exit(1)
	}
	if weeks > report.MaxWeeks {
		fmt.Fprintf(os.Stderr, "Error: Number of weeks cannot exceed %d\n", report.MaxWeeks)
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// A mistyped database path must not come back as an empty report.
	db, err := store.Open(cfg.Database.Path, nil, store.RequireExisting())
	if err != nil {
		return err
	}
	defer db.Close()

	svc := report.NewService(db, cfg.Payroll)
	data, err := svc.Data(context.Background(), weeks)
	if err != nil {
		return err
	}

	if csvOutput {
		out, err := report.CSV(data.Records, data.Employees)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	plural := ""
	if weeks > 1 {
		plural = "s"
	}
	fmt.Printf("Time Tracking Report - %d Week%s\n", weeks, plural)
	fmt.Printf("Period: %s\n", data.DateRange())
	fmt.Println()
	fmt.Println(report.Table(data.Records, data.Employees))

	return nil
}

func main() {
	rootCmd.Flags().BoolVar(&csvOutput, "csv", false, "output CSV instead of a console table")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to settings.toml")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errors.ErrConfigMissing) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		}
		os.Exit(1)
	}
}
