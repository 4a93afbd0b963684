package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/deni-m/standupTracker/internal/platform"
	"github.com/deni-m/standupTracker/internal/report"
	"github.com/deni-m/standupTracker/internal/storage"
)

var (
	flagYesterday bool
	flagDate      string
	flagLogsDir   string
	flagOutput    string
	flagNoOpen    bool
)

var rootCmd = &cobra.Command{
	Use:   "standup-report",
	Short: "Generate an HTML work/break report from the daily activity logs",
	Long: `standup-report reads the per-day CSV activity logs written by the tracker
and renders an HTML report with the work/break timeline and per-application
usage statistics.`,
	RunE: runReport,
}

func init() {
	rootCmd.Flags().BoolVar(&flagYesterday, "yesterday", false, "Generate the report for yesterday")
	rootCmd.Flags().StringVar(&flagDate, "date", "", "Generate the report for a specific date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&flagLogsDir, "logs-dir", "", "Folder holding the daily CSV logs (default: configured log folder)")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "Report file path (default: configured report folder)")
	rootCmd.Flags().BoolVar(&flagNoOpen, "no-open", false, "Do not open the report in the browser")
}

func runReport(cmd *cobra.Command, args []string) error {
	settings, err := storage.LoadSettings()
	if err != nil {
		return err
	}

	date := time.Now()
	switch {
	case flagYesterday && flagDate != "":
		return fmt.Errorf("--yesterday and --date are mutually exclusive")
	case flagYesterday:
		date = date.AddDate(0, 0, -1)
	case flagDate != "":
		date, err = time.ParseInLocation("2006-01-02", flagDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", flagDate)
		}
	}

	logsDir := settings.LogDir
	if flagLogsDir != "" {
		logsDir = flagLogsDir
	}

	parser := report.NewParser(logsDir)
	day, err := parser.ParseDay(date)
	if err != nil {
		return err
	}
	if !day.Exists {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: no log file for %s at %s\n",
			date.Format("2006-01-02"), parser.LogPath(date))
	}

	outputPath := flagOutput
	if outputPath == "" {
		outputPath = report.DefaultOutputPath(settings.ReportDir, date)
	}

	written, err := report.RenderHTML(day, outputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", written)

	if !flagNoOpen {
		if err := platform.OpenPath(written); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
