package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gelseq/pkg/report"
)

func (a *app) newReportsCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List and show saved comparison reports",
	}
	cmd.PersistentFlags().StringVarP(&user, "user", "u", defaultUser, "Owner of the reports")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the user's reports, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := report.Open(a.cfg.Storage.ReportDir)
			if err != nil {
				return err
			}
			reports, err := store.List(user)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), reports)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid report ID %q", args[0])
			}
			store, err := report.Open(a.cfg.Storage.ReportDir)
			if err != nil {
				return err
			}
			r, err := store.Get(user, id)
			if errors.Is(err, report.ErrNotFound) {
				return fmt.Errorf("report %d not found for %s", id, user)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), r)
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}
