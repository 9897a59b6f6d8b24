package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"regexp"
	"time"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/exporter"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/notifier"

	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	var (
		period     string
		interval   string
		enableRSI  bool
		enableBB   bool
		exportPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Analyze one symbol and print its signal panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ac := cfg.AnalysisConfig()
			if cmd.Flags().Changed("period") {
				p, err := model.ParsePeriod(period)
				if err != nil {
					return err
				}
				ac.Period = p
			}
			if cmd.Flags().Changed("interval") {
				ac.Interval = interval
			}
			if cmd.Flags().Changed("rsi") {
				ac.EnableRSI = enableRSI
			}
			if cmd.Flags().Changed("bb") {
				ac.EnableBollinger = enableBB
			}

			fetcher, err := newFetcher(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			bundle, err := collector.NewCollector(fetcher).Analyze(ctx, args[0], ac)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(bundle); err != nil {
					return err
				}
			} else {
				fmt.Print(plainText(notifier.FormatStatusPanel(bundle)))
			}

			if exportPath != "" {
				e, err := exporter.ForPath(exportPath)
				if err != nil {
					return err
				}
				defer e.Close()
				path, err := e.Export(bundle)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "exported to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", string(model.Period6mo), "Lookback window: 1mo, 3mo, 6mo, 1y or 2y")
	cmd.Flags().StringVarP(&interval, "interval", "i", "1d", "Bar interval, e.g. 1d or 1wk")
	cmd.Flags().BoolVar(&enableRSI, "rsi", true, "Compute RSI(14) and the oscillator signal")
	cmd.Flags().BoolVar(&enableBB, "bb", true, "Compute Bollinger Bands and the volatility signal")
	cmd.Flags().StringVarP(&exportPath, "export", "o", "", "Write the indicator table to a .csv or .xlsx file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

var tagPattern = regexp.MustCompile(`</?b>`)

// plainText strips the chat markup for terminal output.
func plainText(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}
