// Package main provides salaryctl, an operator CLI for the salary tracker data store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/config"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/cron"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/salary-tracker/internal/repository/kvstore"
	"github.com/cmlabs-hris/salary-tracker/internal/service/salary"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
	appName = "salaryctl"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type cliOptions struct {
	logLevel string
	driver   string
	sqlite   string
}

func rootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Salary tracker maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: config.ParseLogLevel(opts.logLevel),
			}))
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "Override STORAGE_DRIVER (memory, sqlite, postgres)")
	cmd.PersistentFlags().StringVar(&opts.sqlite, "sqlite-path", "", "Override SQLITE_PATH")

	cmd.AddCommand(migrateCmd(opts), summaryCmd(opts), exportCmd(opts), remindCmd(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// openStore applies flag overrides on top of the environment configuration.
func openStore(ctx context.Context, opts *cliOptions) (database.Gateway, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.driver != "" {
		cfg.Database.Driver = opts.driver
	}
	if opts.sqlite != "" {
		cfg.Database.SQLitePath = opts.sqlite
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return database.Open(ctx, cfg.DatabaseOptions())
}

func migrateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade stored employees and settings to the current schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := kvstore.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}
			slog.Info("Migration finished",
				"employees", result.Employees,
				"employees_changed", result.EmployeesChanged,
				"settings_changed", result.SettingsChanged)
			fmt.Fprintf(cmd.OutOrStdout(), "employees: %d (changed: %t), settings changed: %t\n",
				result.Employees, result.EmployeesChanged, result.SettingsChanged)
			return nil
		},
	}
}

func summaryCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print headcount, payroll and this month's payment status",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer db.Close()
			return printSummary(cmd.Context(), cmd.OutOrStdout(), db, time.Now())
		},
	}
}

func printSummary(ctx context.Context, out io.Writer, db database.Gateway, now time.Time) error {
	employees, err := kvstore.NewEmployeeRepository(db).List(ctx)
	if err != nil {
		return err
	}
	appSettings, err := kvstore.NewSettingsRepository(db).Get(ctx)
	if err != nil {
		return err
	}

	month := salary.CurrentMonth(now)
	monthName, _ := salary.MonthName(month)
	active := salary.ActiveEmployees(employees)
	paid := salary.PaidCount(employees, month)

	fmt.Fprintf(out, "Employees:       %d (%d active, %d inactive)\n", len(employees), len(active), len(employees)-len(active))
	fmt.Fprintf(out, "Monthly payroll: %s\n", salary.FormatCurrency(salary.TotalMonthlyPayroll(employees), string(appSettings.Currency)))
	fmt.Fprintf(out, "%s:   %d paid, %d unpaid\n", monthName, paid, len(active)-paid)
	return nil
}

func remindCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the salary due reminder job once and list who is due",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer db.Close()

			n := runReminders(cmd.Context(), cmd.OutOrStdout(), db, time.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "%d salaries due\n", n)
			return nil
		},
	}
}

// duePrinter writes each salary.due event as one line.
type duePrinter struct {
	out   io.Writer
	count int
}

func (p *duePrinter) Publish(event sse.Event) {
	due, ok := event.Data.(cron.SalaryDue)
	if !ok {
		return
	}
	p.count++
	fmt.Fprintf(p.out, "%s (%s): %s\n", due.Name, due.Month, due.StatusText)
}

func runReminders(ctx context.Context, out io.Writer, db database.Gateway, now time.Time) int {
	printer := &duePrinter{out: out}
	scheduler := cron.NewScheduler(slog.Default())
	cron.NewSalaryReminderJobs(kvstore.NewEmployeeRepository(db), printer, slog.Default(), func() time.Time { return now }).
		RegisterJobs(scheduler, time.Hour)
	scheduler.RunOnce(ctx)
	return printer.count
}

func exportCmd(opts *cliOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all employee records to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := exportEmployees(cmd.Context(), db, outPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d employees to %s\n", n, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "employees.json", "Output file path")
	return cmd
}

func exportEmployees(ctx context.Context, db database.Gateway, outPath string) (int, error) {
	employees, err := kvstore.NewEmployeeRepository(db).List(ctx)
	if err != nil {
		return 0, err
	}
	data, err := json.MarshalIndent(employees, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode employees: %w", err)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return 0, fmt.Errorf("write %s: %w", outPath, err)
	}
	return len(employees), nil
}
