package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trips-club/internal/services"
	"trips-club/internal/utils"
)

func init() {
	rootCmd.AddCommand(creditsCmd)
	creditsCmd.AddCommand(creditsBalanceCmd)
	creditsCmd.AddCommand(creditsGrantCmd)
	creditsCmd.AddCommand(creditsReconcileCmd)

	creditsGrantCmd.Flags().StringP("description", "d", "Manual adjustment", "Ledger description")
	creditsReconcileCmd.Flags().Bool("all", false, "Reconcile every user with a ledger entry")
}

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Inspect and correct travel credit balances",
}

func parseUserID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", arg)
	}
	return uint(id), nil
}

var creditsBalanceCmd = &cobra.Command{
	Use:   "balance USER_ID",
	Short: "Show a user's balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		balance, err := current.credits.GetBalance(cmd.Context(), userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %d: %s (%d cents)\n", userID, utils.FormatCents(balance), balance)
		return nil
	},
}

var creditsGrantCmd = &cobra.Command{
	Use:   "grant USER_ID AMOUNT_CENTS",
	Short: "Apply a signed admin adjustment",
	Long: `Apply a signed admin adjustment. Negative amounts debit the user and fail when the balance is too low.
Separate negative amounts from flags with --, e.g. clubctl credits grant -- 42 -500.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		description, _ := cmd.Flags().GetString("description")

		txn, err := current.credits.Adjust(cmd.Context(), userID, amount, description, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s)\n", txn.ID, utils.FormatCents(txn.AmountCents))
		return nil
	},
}

var creditsReconcileCmd = &cobra.Command{
	Use:   "reconcile [USER_ID]",
	Short: "Reset cached balances to the ledger sum",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		var results []services.ReconcileResult
		switch {
		case all && len(args) == 0:
			var err error
			results, err = current.credits.ReconcileAll(cmd.Context())
			if err != nil {
				return err
			}
		case !all && len(args) == 1:
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			result, err := current.credits.Reconcile(cmd.Context(), userID)
			if err != nil {
				return err
			}
			results = append(results, *result)
		default:
			return fmt.Errorf("pass either a user id or --all")
		}

		drifted := 0
		for _, r := range results {
			if r.Drift() == 0 {
				continue
			}
			drifted++
			fmt.Fprintf(cmd.OutOrStdout(), "User %d: %s -> %s\n", r.UserID, utils.FormatCents(r.Before), utils.FormatCents(r.After))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Checked %d user(s), repaired %d\n", len(results), drifted)
		return nil
	},
}
