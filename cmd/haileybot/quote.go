package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/susu3304/haileybot/internal/config"
)

func quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote [ticker]",
		Short: "Look up a Hong Kong stock price",
		Long: `Look up a stock price the same way the bot answers "<ticker>.hk".

Examples:
  haileybot quote 5
  haileybot quote 0700.hk`,
		Args: cobra.ExactArgs(1),
		RunE: runQuote,
	}
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.StockProvider == "template" && cfg.StockAPIURL == "" {
		return fmt.Errorf("STOCK_API_URL is required")
	}

	ticker := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(args[0])), ".hk")
	ctx := cmd.Context()

	q, err := buildQuoter(cfg).Quote(ctx, ticker)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), q.String())
	return nil
}
