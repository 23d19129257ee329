package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/araddon/dateparse"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/aggregate"
	"github.com/MarcelloBorromeo/SearchSift/internal/config"
	"github.com/MarcelloBorromeo/SearchSift/internal/logger"
	"github.com/MarcelloBorromeo/SearchSift/internal/report"
	"github.com/MarcelloBorromeo/SearchSift/internal/repository"
	"github.com/MarcelloBorromeo/SearchSift/internal/repository/clickhouse"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reporter",
		Short: "Generates SearchSift daily report files",
	}

	var date string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Generate the report for a single day and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(ctx context.Context, deps *deps) error {
				return generate(ctx, deps, date)
			})
		},
	}
	runCmd.Flags().StringVar(&date, "date", "", "report date (YYYY-MM-DD, default yesterday)")

	var schedule string
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate yesterday's report on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(ctx context.Context, deps *deps) error {
				return runScheduled(ctx, deps, schedule)
			})
		},
	}
	scheduleCmd.Flags().StringVar(&schedule, "cron", "0 1 * * *", "cron expression for report generation")

	rootCmd.AddCommand(runCmd, scheduleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type deps struct {
	repo   repository.SearchRecordRepository
	writer *report.Writer
	log    *zap.Logger
}

// withDeps loads config, connects to ClickHouse, and tears everything down
// after fn returns.
func withDeps(fn func(ctx context.Context, deps *deps) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	chClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		return fmt.Errorf("failed to create ClickHouse client: %w", err)
	}
	defer func() {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	repo := clickhouse.NewRepository(chClient, log)

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}

	return fn(ctx, &deps{
		repo:   repo,
		writer: report.NewWriter(cfg.Reports.Dir, renderer, log),
		log:    log,
	})
}

// generate builds and writes the report files for one day. An empty date
// defaults to yesterday.
func generate(ctx context.Context, d *deps, date string) error {
	now := time.Now().UTC()

	day := now.AddDate(0, 0, -1)
	if date != "" {
		parsed, err := dateparse.ParseAny(date)
		if err != nil {
			return fmt.Errorf("invalid date format: %w", err)
		}
		day = parsed.UTC()
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	records, err := d.repo.QueryByRange(ctx, repository.RecordQuery{
		Start: day,
		End:   day.Add(24*time.Hour - time.Nanosecond),
	})
	if err != nil {
		return fmt.Errorf("failed to query records: %w", err)
	}

	daily := aggregate.BuildDailyReport(day, records, now)

	if err := d.writer.WriteFiles(&daily); err != nil {
		return err
	}

	d.log.Info("Daily report generated",
		zap.String("date", daily.Date),
		zap.Int("records", len(records)))

	return nil
}

// runScheduled generates yesterday's report on the given cron schedule
// until interrupted.
func runScheduled(ctx context.Context, d *deps, schedule string) error {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if err := generate(ctx, d, ""); err != nil {
			d.log.Error("Scheduled report generation failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	d.log.Info("Report scheduler starting", zap.String("cron", schedule))
	c.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	d.log.Info("Shutting down report scheduler")
	stopCtx := c.Stop()
	<-stopCtx.Done()

	return nil
}
