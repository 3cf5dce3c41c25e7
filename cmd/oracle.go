package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kcitlyn/Astrarium1/internal/config"
	"github.com/kcitlyn/Astrarium1/internal/store"
)

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Inspect oracle (LLM) request logs",
}

var oracleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent oracle requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		db, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		requests, err := db.RecentOracleRequests(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query oracle requests: %w", err)
		}

		if len(requests) == 0 {
			fmt.Println("No oracle requests recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-20s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 104))

		for _, r := range requests {
			if purpose != "" && r.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !r.Success {
				ok = "✗"
			}
			model := r.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-5d  %-19s  %-20s  %-28s  %-6d  %-6d  %-7d  %s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Purpose,
				model,
				r.InputTokens,
				r.OutputTokens,
				r.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var oracleSpendCmd = &cobra.Command{
	Use:   "spend",
	Short: "Show estimated oracle cost over the trailing window",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		db, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		since := time.Now().AddDate(0, 0, -days)
		total, err := db.OracleSpend(context.Background(), since)
		if err != nil {
			return fmt.Errorf("query spend: %w", err)
		}

		fmt.Printf("Oracle spend over the last %d days: %s\n", days, formatCost(total))
		return nil
	},
}

func openStore(cmd *cobra.Command) (*store.DB, error) {
	cfg := config.FromEnv()
	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	oracleListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	oracleListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (question, evaluation, hint)")
	oracleSpendCmd.Flags().Int("days", 30, "Trailing window in days")

	oracleCmd.AddCommand(oracleListCmd)
	oracleCmd.AddCommand(oracleSpendCmd)
}
