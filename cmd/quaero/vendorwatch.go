package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aletho/quaero/internal/config"
	"github.com/aletho/quaero/internal/vendorwatch"
)

var (
	flagScrapeURL string
	flagDBPath    string
	flagChartOut  string
	flagChartMon  int
	flagChartYear int
)

func dbPath(cfg *config.Config) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return cfg.DBPath
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the vendor product table and store today's rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogLevel()

		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		s := &vendorwatch.Scraper{URL: flagScrapeURL}
		products, err := s.Scrape(cmd.Context())
		if err != nil {
			return fmt.Errorf("scrape vendor page: %w", err)
		}
		if len(products) == 0 {
			log.Warn().Msg("vendor page yielded no product rows")
			return nil
		}

		store, err := vendorwatch.OpenStore(dbPath(cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Insert(cmd.Context(), time.Now(), products); err != nil {
			return err
		}
		log.Info().Int("rows", len(products)).Str("db", dbPath(cfg)).Msg("stored vendor rows")
		return nil
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the monthly removal-percentage chart to a PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogLevel()

		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		store, err := vendorwatch.OpenStore(dbPath(cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		rows, err := store.MonthlyRows(cmd.Context(), flagChartMon, flagChartYear)
		if err != nil {
			return err
		}
		if err := vendorwatch.RenderTrendChart(rows, flagChartOut); err != nil {
			if errors.Is(err, vendorwatch.ErrNoData) {
				fmt.Println("No data available for the requested month.")
				return nil
			}
			return err
		}
		log.Info().Str("path", flagChartOut).Int("rows", len(rows)).Msg("chart written")
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&flagScrapeURL, "url", "", "Vendor page to scrape (defaults to the built-in URL)")
	scrapeCmd.Flags().StringVar(&flagDBPath, "db", "", "SQLite database path (defaults to QUAERO_DB_PATH)")
	chartCmd.Flags().StringVar(&flagDBPath, "db", "", "SQLite database path (defaults to QUAERO_DB_PATH)")

	now := time.Now()
	chartCmd.Flags().StringVar(&flagChartOut, "out", "trend.pdf", "Output PDF path")
	chartCmd.Flags().IntVar(&flagChartMon, "month", int(now.Month()), "Month to chart (0 for all)")
	chartCmd.Flags().IntVar(&flagChartYear, "year", now.Year(), "Year to chart (0 for all)")
}
