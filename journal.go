package main

import (
	"fmt"
	"io"
	"time"

	"SpotTradeBot/config"
	"SpotTradeBot/internal/repositories"

	"github.com/spf13/cobra"
)

func journalCmd(envFile *string) *cobra.Command {
	var (
		since time.Duration
		asset string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Summarize closed trades and balances recorded in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			if !cfg.JournalEnabled() {
				return fmt.Errorf("no database configured: set DB_HOST")
			}
			db, err := repositories.Open(cfg.Database.DSN())
			if err != nil {
				return err
			}
			return printJournal(cmd.OutOrStdout(), cfg.Trading.Symbol, asset, since, limit,
				repositories.NewTradeRepository(db), repositories.NewBalanceRepository(db))
		},
	}
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "Window for the realized PnL total")
	cmd.Flags().StringVar(&asset, "asset", "USDT", "Asset whose latest balance snapshot is shown")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of recent trades to list")
	return cmd
}

func printJournal(out io.Writer, symbol, asset string, since time.Duration, limit int,
	trades *repositories.TradeRepository, balances *repositories.BalanceRepository) error {
	now := time.Now()

	total, err := trades.GetTotalPnL(symbol, now.Add(-since), now)
	if err != nil {
		return fmt.Errorf("failed to sum PnL: %w", err)
	}
	fmt.Fprintf(out, "%s realized PnL over %s: %.8f\n", symbol, since, total)

	records, err := trades.FindBySymbol(symbol)
	if err != nil {
		return fmt.Errorf("failed to load trades: %w", err)
	}
	for i, tr := range records {
		if i == limit {
			fmt.Fprintf(out, "... %d older trades\n", len(records)-limit)
			break
		}
		fmt.Fprintf(out, "%s  %-11s qty=%.8f entry=%.8f exit=%.8f pnl=%.8f (%.2f%%)\n",
			tr.CloseTime.Format("2006-01-02 15:04:05"), tr.Reason, tr.Quantity,
			tr.EntryPrice, tr.ExitPrice, tr.PnL, tr.PnLPct)
	}

	b, err := balances.FindLatestByAsset(asset)
	if err != nil {
		return fmt.Errorf("failed to load balance: %w", err)
	}
	if b == nil {
		fmt.Fprintf(out, "no %s balance snapshot recorded\n", asset)
		return nil
	}
	fmt.Fprintf(out, "%s balance at %s: free %.8f locked %.8f\n",
		asset, b.LastUpdated.Format("2006-01-02 15:04:05"), b.Free, b.Locked)
	return nil
}
