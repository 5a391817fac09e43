package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"roicalc/cmd"
	"roicalc/config"
	"roicalc/database"
	"roicalc/models"
	"roicalc/report"
	"roicalc/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "roicalc",
		Short:         "Invoice automation ROI calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cmd.ConfigureLogging(cfg)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return cmd.Run(ctx, cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return database.MigrateUp(cfg.GetDatabaseURL())
		},
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			steps := "1"
			if len(args) == 1 {
				steps = args[0]
			}
			return database.MigrateDown(cfg.GetDatabaseURL(), steps)
		},
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return database.MigrateStatus(cfg.GetDatabaseURL())
		},
	})

	return migrate
}

func simulateCmd() *cobra.Command {
	var (
		volume, staff, hours, wage  float64
		errorRate, errorCost        float64
		horizon, implementationCost float64
		pdfPath                     string
	)

	c := &cobra.Command{
		Use:   "simulate",
		Short: "Compute savings for a set of inputs without a database",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			raw := map[string]any{
				"monthlyInvoiceVolume":      volume,
				"apStaffCount":              staff,
				"avgHoursPerInvoice":        hours,
				"hourlyWage":                wage,
				"manualErrorRatePercent":    errorRate,
				"errorCost":                 errorCost,
				"timeHorizonMonths":         horizon,
				"oneTimeImplementationCost": implementationCost,
			}

			inputs, results, err := service.NewSimulationService(nil).Simulate(c.Context(), raw)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return err
			}

			if pdfPath == "" {
				return nil
			}
			return writeReport(pdfPath, inputs, results)
		},
	}

	flags := c.Flags()
	flags.Float64Var(&volume, "volume", 0, "monthly invoice volume")
	flags.Float64Var(&staff, "staff", 0, "AP staff count")
	flags.Float64Var(&hours, "hours", 0, "average hours per invoice")
	flags.Float64Var(&wage, "wage", 0, "hourly wage")
	flags.Float64Var(&errorRate, "error-rate", 0, "manual error rate in percent")
	flags.Float64Var(&errorCost, "error-cost", 0, "cost per error")
	flags.Float64Var(&horizon, "horizon", 0, "time horizon in months")
	flags.Float64Var(&implementationCost, "implementation-cost", 0, "one-time implementation cost")
	flags.StringVar(&pdfPath, "pdf", "", "also write the PDF report to this path")

	return c
}

func writeReport(path string, inputs models.MetricsInput, results models.ResultsRecord) error {
	document, err := report.NewGenerator().Compose(inputs, results)
	if err != nil {
		return fmt.Errorf("failed to compose report: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := document.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.WithField("path", path).Info("Report written")
	return nil
}
