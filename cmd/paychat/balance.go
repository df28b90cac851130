package main

import (
	"fmt"

	"github.com/spf13/cobra"

	receiptService "payments-chat-backend/internal/features/receipt/service"
)

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print a user's balance",
		Long:  "Prints the mirrored balance, or the payments API balance with --remote.",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := userFlag(cmd)
			if err != nil {
				return err
			}
			remote, _ := cmd.Flags().GetBool("remote")

			d, err := openDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer d.Close()

			var minor int64
			if remote {
				user, err := d.api.GetUser(cmd.Context(), userID)
				if err != nil {
					return err
				}
				minor = user.BalanceMinor()
			} else {
				var ok bool
				minor, ok, err = d.ledger.Balance(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No mirrored balance yet; try --remote.")
					return nil
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), receiptService.FormatBRL(minor))
			return nil
		},
	}

	cmd.Flags().Int64P("user", "u", 0, "User id")
	cmd.Flags().Bool("remote", false, "Ask the payments API instead of the mirror")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
