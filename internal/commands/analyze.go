package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/pipeline"
	"PriceSentinel/internal/strategy"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a list of symbols once",
	Long: `Fetch daily bars for each symbol, compute indicators and a signal, and
send an alert when a recipient is given and the strategy deems it alert-worthy.

Examples:
  sentinel analyze --symbols "AAPL, msft" --strategy crossover
  sentinel analyze --symbols TSLA --start 2024-01-01 --end 2024-06-28 --recipient ops@example.com
  sentinel analyze --symbols SPX500 --output json`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("symbols", "s", "", "comma-separated symbols (required)")
	analyzeCmd.Flags().String("start", "", "start date YYYY-MM-DD (default: end minus lookback)")
	analyzeCmd.Flags().String("end", "", "end date YYYY-MM-DD (default: yesterday)")
	analyzeCmd.Flags().String("strategy", "", "simple, threshold or crossover (default from config)")
	analyzeCmd.Flags().StringP("recipient", "r", "", "alert recipient; empty disables alerts")
	analyzeCmd.Flags().StringP("output", "o", "text", "output format: text or json")
	analyzeCmd.MarkFlagRequired("symbols")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := analyzeRequest(cmd, cfg.Analysis.Strategy, cfg.Analysis.LookbackDays, time.Now())
	if err != nil {
		return err
	}

	report, err := a.analyzer.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "text":
		fmt.Fprint(out, notifier.FormatReport(report.Summaries))
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", output)
	}
}

func analyzeRequest(cmd *cobra.Command, defaultStrategy string, lookbackDays int, now time.Time) (pipeline.Request, error) {
	symbolsText, _ := cmd.Flags().GetString("symbols")
	startText, _ := cmd.Flags().GetString("start")
	endText, _ := cmd.Flags().GetString("end")
	strategyName, _ := cmd.Flags().GetString("strategy")
	recipient, _ := cmd.Flags().GetString("recipient")

	if strategyName == "" {
		strategyName = defaultStrategy
	}
	kind, err := strategy.Parse(strategyName)
	if err != nil {
		return pipeline.Request{}, err
	}

	end := pipeline.Yesterday(now)
	if endText != "" {
		if end, err = pipeline.ParseDate(endText); err != nil {
			return pipeline.Request{}, err
		}
	}
	start := end.AddDate(0, 0, -lookbackDays)
	if startText != "" {
		if start, err = pipeline.ParseDate(startText); err != nil {
			return pipeline.Request{}, err
		}
	}

	return pipeline.Request{
		Symbols:   pipeline.ParseSymbols(symbolsText),
		Start:     start,
		End:       end,
		Recipient: recipient,
		Strategy:  kind,
	}, nil
}
