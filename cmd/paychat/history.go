package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the mirrored transaction history of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := userFlag(cmd)
			if err != nil {
				return err
			}

			d, err := openDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer d.Close()

			history, err := d.ledger.LoadHistory(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tSTATUS\tCOUNTERPARTY")
			for _, rec := range history {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", rec.ID, rec.Date, rec.Amount.StringFixed(2), rec.Status, rec.Recipient)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64P("user", "u", 0, "User id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
