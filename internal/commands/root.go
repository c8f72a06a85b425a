// Package commands implements the sentinel command line.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"PriceSentinel/internal/config"
)

// Version is set at build time with -ldflags "-X PriceSentinel/internal/commands.Version=...".
var Version = "dev"

var (
	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Price series analysis and alerting",
	Long: `Sentinel fetches daily prices for a list of symbols, computes technical
indicators (SMA20/50, RSI14, MACD, Bollinger Bands), derives a trading signal
under a selectable strategy and optionally sends an alert.

Strategies:
• simple     reports the latest price direction
• threshold  BUY/SELL when the daily move exceeds ±2%
• crossover  BUY/SELL on SMA20 vs SMA50, with advisory RSI status`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
